package indexing

import (
	"context"

	"github.com/lewis4x4/SouthernCoal-sub001/internal/core"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/logging"
	"github.com/lewis4x4/SouthernCoal-sub001/internal/models"
)

// tenantSource is one ordered strategy for resolving the owning organization.
type tenantSource struct {
	name    string
	resolve func(ctx context.Context) (string, error)
}

// resolveOrg walks the fallback order first-match-wins: the access guard's
// tenant hint, then the uploader's organization, then the organization of the
// linked canonical document. The index is tenant-scoped for retrieval
// isolation, so indexing never proceeds without a resolved organization.
func (ix *Indexer) resolveOrg(ctx context.Context, pr core.Principal, src *models.SourceDocument) (string, error) {
	sources := []tenantSource{
		{
			name: "access_guard_hint",
			resolve: func(ctx context.Context) (string, error) {
				return pr.OrgHint, nil
			},
		},
		{
			name: "uploader_profile",
			resolve: func(ctx context.Context) (string, error) {
				if src.UploadedBy == nil {
					return "", nil
				}
				prof, err := ix.db.GetProfile(ctx, *src.UploadedBy)
				if err != nil || prof == nil {
					return "", err
				}
				return prof.OrgID, nil
			},
		},
		{
			name: "linked_document",
			resolve: func(ctx context.Context) (string, error) {
				if src.DocumentID == nil {
					return "", nil
				}
				return ix.db.GetDocumentOrg(ctx, *src.DocumentID)
			},
		},
	}

	for _, s := range sources {
		org, err := s.resolve(ctx)
		if err != nil {
			logging.Warnw("tenant source failed, trying next", "source", s.name, "source_id", src.ID, "error", err)
			continue
		}
		if org != "" {
			return org, nil
		}
	}
	return "", newError(KindInternal, "unable to resolve owning organization", nil)
}
