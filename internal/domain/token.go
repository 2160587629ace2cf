package domain

// AssetReferences are the pinned image and metadata URLs for one request.
type AssetReferences struct {
	ImageURL    string
	MetadataURL string
}

// TokenSummary describes one token account that the owner holds.
type TokenSummary struct {
	Address       string  `json:"address"`
	Mint          string  `json:"mint"`
	Name          string  `json:"name"`
	Amount        string  `json:"amount"`
	MintAuthority *string `json:"mintAuthority"`
}

// PlaceholderName derives a display name from the mint prefix.
func PlaceholderName(mint string) string {
	prefix := mint
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return "Token " + prefix
}
