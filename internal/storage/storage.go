package storage

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrProjectNotFound = errors.New("project not found")
	ErrSlugTaken       = errors.New("slug already taken")
	ErrInquiryNotFound = errors.New("inquiry not found")
	ErrMediaNotFound   = errors.New("media not found")
	ErrCacheMiss       = errors.New("cache miss")
)
