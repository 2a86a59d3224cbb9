package catalog

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"digital.vasic.lessons/pkg/httpclient"
)

// LoadURL fetches a bank file over HTTP and registers its
// lessons. The format is chosen by the URL path's extension,
// defaulting to JSON. If client is nil a default BankClient is
// used.
func (ld *Loader) LoadURL(
	ctx context.Context,
	client *httpclient.BankClient,
	rawURL string,
) error {
	if client == nil {
		client = httpclient.NewBankClient()
	}

	data, err := client.Fetch(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("failed to fetch bank: %w", err)
	}

	isYAML := false
	if u, err := url.Parse(rawURL); err == nil {
		ext := strings.ToLower(path.Ext(u.Path))
		isYAML = ext == ".yaml" || ext == ".yml"
	}

	return ld.LoadBytes(data, isYAML, rawURL)
}
