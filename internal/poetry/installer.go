package poetry

import (
	"context"
	"fmt"
	"io"
	"net/http"

	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
)

// maxScriptSize bounds the installer download.
const maxScriptSize = 4 << 20

// FetchInstaller downloads the install script from url. The body is not
// verified.
func FetchInstaller(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, clierrors.InstallerDownloadFailed(url, err)
	}
	req.Header.Set("User-Agent", "devsetup")

	resp, err := client.Do(req)
	if err != nil {
		return nil, clierrors.InstallerDownloadFailed(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, clierrors.InstallerDownloadFailed(url, fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScriptSize))
	if err != nil {
		return nil, clierrors.InstallerDownloadFailed(url, err)
	}
	if len(body) == 0 {
		return nil, clierrors.InstallerDownloadFailed(url, fmt.Errorf("empty response body"))
	}
	return body, nil
}
