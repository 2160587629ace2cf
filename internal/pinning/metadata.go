package pinning

import (
	"net/http"

	"spl-token-creator/internal/domain"
)

// Default creator attribution embedded in metadata documents.
const (
	DefaultCreatorName = "SOL TOKEN TOOLS"
	DefaultCreatorSite = "https://www.soltokentools.io"
	defaultImageType   = "image/png"
)

// Metadata is the off-chain token metadata document.
type Metadata struct {
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	ExternalURL string      `json:"external_url,omitempty"`
	Attributes  []Attribute `json:"attributes"`
	Properties  Properties  `json:"properties"`
}

// Attribute is a trait entry.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Properties groups files, category and creators.
type Properties struct {
	Files    []File    `json:"files"`
	Category string    `json:"category"`
	Creators []Creator `json:"creators"`
}

// File references an uploaded asset.
type File struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
}

// Creator attributes the document.
type Creator struct {
	Name string `json:"name"`
	Site string `json:"site"`
}

// DefaultCreator returns the default creator attribution.
func DefaultCreator() Creator {
	return Creator{Name: DefaultCreatorName, Site: DefaultCreatorSite}
}

// BuildMetadata assembles the metadata document for req with the uploaded
// image URL. Social traits and external_url appear only when provided.
func BuildMetadata(req domain.TokenCreationRequest, imageURL string, creator Creator) Metadata {
	doc := Metadata{
		Name:        req.Name,
		Symbol:      req.Symbol,
		Description: req.Description,
		Image:       imageURL,
		ExternalURL: req.Website,
		Attributes:  []Attribute{},
		Properties: Properties{
			Files:    []File{{URI: imageURL, Type: ImageContentType(req.Image)}},
			Category: "image",
			Creators: []Creator{creator},
		},
	}

	for _, trait := range []Attribute{
		{TraitType: "Twitter", Value: req.Twitter},
		{TraitType: "Telegram", Value: req.Telegram},
		{TraitType: "Discord", Value: req.Discord},
	} {
		if trait.Value != "" {
			doc.Attributes = append(doc.Attributes, trait)
		}
	}

	return doc
}

// ImageContentType returns the declared content type of img, sniffing the
// data when none was declared.
func ImageContentType(img domain.Image) string {
	if img.ContentType != "" {
		return img.ContentType
	}
	if len(img.Data) == 0 {
		return defaultImageType
	}
	ct := http.DetectContentType(img.Data)
	if ct == "application/octet-stream" {
		return defaultImageType
	}
	return ct
}
