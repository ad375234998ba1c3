package moderation

import "errors"

var (
	ErrPermissionDenied        = errors.New("permission denied")
	ErrNotPermittedActor       = errors.New("actor is not bound to this view")
	ErrTargetNotSanctioned     = errors.New("target is not sanctioned")
	ErrPlatformOperationFailed = errors.New("platform operation failed")
	ErrInvalidInput            = errors.New("invalid input")
	ErrRoleProvisioningFailed  = errors.New("mute role provisioning failed")
	ErrViewExpired             = errors.New("view expired")
)
