package store

import (
	domainerrors "github.com/listenupapp/bookcatalog/internal/errors"
)

// Catalog store errors. They are domain errors so both transports map them
// without knowing about the store.
var (
	ErrBookNotFound   = domainerrors.NotFound("book not found")
	ErrBookExists     = domainerrors.AlreadyExists("book already exists")
	ErrIDOutOfOrder   = domainerrors.Conflict("book id must be a decimal greater than every existing id")
	ErrCatalogClosed  = domainerrors.Unavailable("catalog is closed")
	ErrUnknownBackend = domainerrors.Validation("unknown catalog backend")
)
