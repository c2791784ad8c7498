package handler

// Aliases exposing package constants to the external handler_test package.
const (
	ClientHeader  = clientHeader
	ClientAndroid = clientAndroid
	AccessCookie  = accessCookie
	RefreshCookie = refreshCookie
)
