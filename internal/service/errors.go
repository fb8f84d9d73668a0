package service

import "errors"

// Ошибки предусловий. Хендлеры сравнивают их через errors.Is и отвечают 4xx.
var (
	ErrNoUser           = errors.New("user id is required")
	ErrEmptyDeck        = errors.New("deck is empty")
	ErrInvalidDirection = errors.New("unknown swipe direction")
	ErrDeckSuperseded   = errors.New("deck refresh superseded by a newer one")
	ErrInvalidStars     = errors.New("stars must be an integer in [1,5]")
	ErrEmptyItemID      = errors.New("item id is required")
	ErrItemNotFound     = errors.New("item not found")
	ErrOwnItem          = errors.New("cannot match own item")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidItem      = errors.New("invalid item")
	ErrEmptyMessage     = errors.New("message text is empty")
	ErrSelfMessage      = errors.New("cannot message yourself")

	ErrLoginTaken         = errors.New("login already taken")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrEmptyCredentials   = errors.New("login and password are required")

	ErrTradeNotFound   = errors.New("trade not found")
	ErrNotParticipant  = errors.New("user is not a trade participant")
	ErrTradeTooSmall   = errors.New("trade needs at least two items")
	ErrNotOwner        = errors.New("caller must own at least one traded item")
	ErrSingleOwner     = errors.New("trade needs items from at least two owners")
	ErrTradeCompleted  = errors.New("trade already completed")
	ErrItemUnavailable = errors.New("item is no longer available")
)
