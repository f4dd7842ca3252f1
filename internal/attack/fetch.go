package attack

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultURLs are the enterprise, ICS and mobile ATT&CK manifests.
var DefaultURLs = []string{
	"https://raw.githubusercontent.com/mitre/cti/master/enterprise-attack/enterprise-attack.json",
	"https://raw.githubusercontent.com/mitre/cti/master/ics-attack/ics-attack.json",
	"https://raw.githubusercontent.com/mitre/cti/master/mobile-attack/mobile-attack.json",
}

// maxParallelDownloads bounds concurrent manifest downloads.
const maxParallelDownloads = 4

// Importer downloads and parses STIX manifests.
type Importer struct {
	client *http.Client
	log    *zap.Logger
}

func NewImporter(client *http.Client, log *zap.Logger) *Importer {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{client: client, log: log}
}

// Fetch downloads every manifest concurrently and merges them in url order.
// Any failed download or parse fails the whole import.
func (im *Importer) Fetch(ctx context.Context, urls ...string) (Catalog, error) {
	manifests := make([][]*Object, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDownloads)
	for i, url := range urls {
		g.Go(func() error {
			im.log.Info("downloading ATT&CK manifest", zap.String("url", shortURL(url)))
			data, err := im.get(ctx, url)
			if err != nil {
				return err
			}
			objects, err := ParseManifest(data, im.log.With(zap.String("url", shortURL(url))))
			if err != nil {
				return fmt.Errorf("%s: %w", url, err)
			}
			manifests[i] = objects
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := NewCatalog(manifests...)
	im.log.Info("ATT&CK catalog built", zap.Int("manifests", len(urls)), zap.Int("objects", c.Len()))
	return c, nil
}

func (im *Importer) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	resp, err := im.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}

// shortURL keeps the last 70 characters of long urls.
func shortURL(url string) string {
	if len(url) <= 70 {
		return url
	}
	return "..." + url[len(url)-70:]
}
