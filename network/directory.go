package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/automoto/brickbrawl/shared/directory"
)

// ErrNoHost is returned when the directory lists no joinable host.
var ErrNoHost = errors.New("no compatible host listed")

var directoryClient = &http.Client{Timeout: 5 * time.Second}

// FetchHosts lists the hosts advertised on the directory at baseURL.
func FetchHosts(ctx context.Context, baseURL string) ([]directory.HostInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+directory.ListPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := directoryClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	var hosts []directory.HostInfo
	if err := json.NewDecoder(resp.Body).Decode(&hosts); err != nil {
		return nil, fmt.Errorf("decode host list: %w", err)
	}
	return hosts, nil
}

// PickHost returns the first host speaking version with a free slot.
func PickHost(hosts []directory.HostInfo, version string) (directory.HostInfo, error) {
	for _, h := range hosts {
		if h.Version == version && !h.Full() {
			return h, nil
		}
	}
	return directory.HostInfo{}, ErrNoHost
}
