package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"digital.vasic.lessons/pkg/catalog"
	"digital.vasic.lessons/pkg/httpclient"
)

// loadSources populates the registry from the given sources.
// Each source may be a bank file, a directory of bank files,
// or an http(s) URL.
func loadSources(
	ctx context.Context,
	loader *catalog.Loader,
	sources []string,
) error {
	var client *httpclient.BankClient

	for _, src := range sources {
		if strings.HasPrefix(src, "http://") ||
			strings.HasPrefix(src, "https://") {
			if client == nil {
				client = httpclient.NewBankClient()
			}
			if err := loader.LoadURL(ctx, client, src); err != nil {
				return err
			}
			continue
		}

		info, err := os.Stat(src)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", src, err)
		}
		if info.IsDir() {
			if err := loader.LoadDir(src); err != nil {
				return err
			}
			continue
		}
		if err := loader.LoadFile(src); err != nil {
			return err
		}
	}

	return nil
}
