package stash

import "errors"

var (
	ErrInventoryNotFound = errors.New("inventory not found")
	ErrInventoryExists   = errors.New("inventory already open")
	ErrSlotNotFound      = errors.New("slot not found")
	ErrKindNotFound      = errors.New("kind not found")
)
