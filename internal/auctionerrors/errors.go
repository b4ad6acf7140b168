package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound      = errors.New("auction not found")
	ErrItemNotFound         = errors.New("auction item not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNoBids               = errors.New("no bids found for item")
	ErrDuplicateAuctionItem = errors.New("auction already lists this product")
	ErrStalePrice           = errors.New("bid does not exceed the committed current price")
)

// business logic errors
var (
	ErrInvalidBid        = errors.New("invalid bid")
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrAuctionNotOpen    = errors.New("auction is not running")
	ErrItemNotActive     = errors.New("auction item is not active")
	ErrItemBusy          = errors.New("item is busy with another bid")
	ErrInvalidTransition = errors.New("illegal status transition")
	ErrValidation        = errors.New("validation failed")
)
