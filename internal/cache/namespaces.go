package cache

// Cache namespaces. Keeping them in one place avoids two modules caching the
// same entity under different keys.
const (
	NamespaceWorkspace     = "workspace"
	NamespaceAPI           = "api"
	NamespaceSigningSecret = "signing_secret"
	NamespaceClient        = "client"
)
