package constants

type (
	RequestSource string
	APIStatus     string
	CachePrefix   string
)

const (
	RequestSourceAPI RequestSource = "API"
	RequestSourceCLI RequestSource = "CLI"

	APIStatusSuccess APIStatus = "success"
	APIStatusError   APIStatus = "error"

	CachePrefixHints CachePrefix = "HINT_"
)
