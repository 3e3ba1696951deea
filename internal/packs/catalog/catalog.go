package catalog

import "github.com/dgerlanc/dcg/internal/packs"

// All returns the full shipped pack catalog, core tier first in
// declaration order, then extended tier. Callers pass this straight to
// packs.NewRegistry; enablement filtering happens there.
func All() []*packs.Pack {
	return []*packs.Pack{
		gitPack(),
		filesystemPack(),
		npmPack(),
		dockerPack(),
		kubernetesPack(),
		databasePack(),
		secretsPack(),
		cdnPack(),
		systemPack(),
		remotePack(),
	}
}
