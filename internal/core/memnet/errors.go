package memnet

import "errors"

var (
	// ErrNilPoster 未提供 Poster
	ErrNilPoster = errors.New("memnet: poster is nil")

	// ErrNilNetwork 未提供 Network
	ErrNilNetwork = errors.New("memnet: network is nil")
)
