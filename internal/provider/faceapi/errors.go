package faceapi

import "errors"

var (
	ErrServiceUnavailable = errors.New("face analysis service unavailable")
	ErrInvalidResponse    = errors.New("invalid response from face analysis service")
	ErrTooFewLandmarks    = errors.New("landmark sequence shorter than contract minimum")
)
