package regexmatch

import "time"

// backtrackTimeout bounds how long the backtracking engine may spend on
// a single match attempt. Pathological input against a backtracking
// pattern degrades to exponential time; regexp2 aborts and returns an
// error once the timeout elapses, which IsMatch/FindSpan treat as a
// non-match per the fail-open policy.
const backtrackTimeout = 20 * time.Millisecond
