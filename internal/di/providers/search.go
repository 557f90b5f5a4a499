package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookcatalog/internal/logger"
	"github.com/listenupapp/bookcatalog/internal/search"
)

// SearchIndexHandle wraps the book index for do's shutdown hook.
type SearchIndexHandle struct {
	*search.BookIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory full-text index over the catalog.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewBookIndex(log.Component("search"))
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{BookIndex: index}, nil
}
