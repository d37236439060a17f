package auth

// Known OAuth scopes used by the API surface.
const (
	ScopeProgressWrite = "progress:write"
	ScopeProgressRead  = "progress:read"
)
