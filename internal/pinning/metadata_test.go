package pinning

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spl-token-creator/internal/domain"
)

func baseRequest() domain.TokenCreationRequest {
	req := domain.NewTokenCreationRequest()
	req.Name = "Test Token"
	req.Symbol = "TEST"
	req.Description = "A test token"
	req.Image = domain.Image{Filename: "logo.png", ContentType: "image/png", Data: []byte{1}}
	return req
}

func TestBuildMetadata_Minimal(t *testing.T) {
	doc := BuildMetadata(baseRequest(), "https://gw/ipfs/QmImg", DefaultCreator())

	assert.Equal(t, "Test Token", doc.Name)
	assert.Equal(t, "TEST", doc.Symbol)
	assert.Equal(t, "A test token", doc.Description)
	assert.Equal(t, "https://gw/ipfs/QmImg", doc.Image)
	assert.Empty(t, doc.Attributes)
	assert.Equal(t, "image", doc.Properties.Category)
	require.Len(t, doc.Properties.Files, 1)
	assert.Equal(t, File{URI: "https://gw/ipfs/QmImg", Type: "image/png"}, doc.Properties.Files[0])
	assert.Equal(t, []Creator{{Name: DefaultCreatorName, Site: DefaultCreatorSite}}, doc.Properties.Creators)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "external_url")
	assert.Equal(t, []interface{}{}, fields["attributes"])
}

func TestBuildMetadata_Socials(t *testing.T) {
	req := baseRequest()
	req.Website = "https://example.com"
	req.Twitter = "https://x.com/test"
	req.Discord = "https://discord.gg/test"

	doc := BuildMetadata(req, "u", DefaultCreator())

	assert.Equal(t, "https://example.com", doc.ExternalURL)
	assert.Equal(t, []Attribute{
		{TraitType: "Twitter", Value: "https://x.com/test"},
		{TraitType: "Discord", Value: "https://discord.gg/test"},
	}, doc.Attributes)
}

func TestImageContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ImageContentType(domain.Image{ContentType: "image/jpeg"}))
	assert.Equal(t, "image/png", ImageContentType(domain.Image{}))
	assert.Equal(t, "image/gif", ImageContentType(domain.Image{Data: []byte("GIF89a......")}))
	assert.Equal(t, "image/png", ImageContentType(domain.Image{Data: []byte{0x00, 0x01, 0x02}}))
}
