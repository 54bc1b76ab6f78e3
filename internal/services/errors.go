package services

import "errors"

// ErrDatasetNotLoaded is returned by every dashboard operation until the
// store holds a successfully parsed dataset.
var ErrDatasetNotLoaded = errors.New("dataset not loaded")
