package search

import domainerrors "github.com/listenupapp/bookcatalog/internal/errors"

// ErrIndexClosed is returned by every operation after Close.
var ErrIndexClosed = domainerrors.Unavailable("search index is closed")
