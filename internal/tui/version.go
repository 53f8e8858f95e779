package tui

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cast"
)

// releasesURL is the GitHub endpoint for the latest CLI release.
var releasesURL = "https://api.github.com/repos/naveenspark/aula/releases/latest"

// versionCheckMsg carries the result of a background GitHub release check.
type versionCheckMsg struct {
	latestVersion string
	hasUpdate     bool
}

// checkVersion fires a non-blocking HTTP request to GitHub to see if a newer
// CLI release exists. Returns nil when version is "dev".
func checkVersion(current string) tea.Cmd {
	if current == "" || current == "dev" {
		return nil
	}
	url := releasesURL
	return func() tea.Msg {
		latest, err := LatestRelease(url)
		if err != nil || !IsNewerVersion(latest, current) {
			return versionCheckMsg{}
		}
		return versionCheckMsg{latestVersion: "v" + strings.TrimPrefix(latest, "v"), hasUpdate: true}
	}
}

// LatestRelease fetches the tag of the latest release from url.
func LatestRelease(url string) (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return "", &releaseError{status: resp.StatusCode}
	}
	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return release.TagName, nil
}

type releaseError struct{ status int }

func (e *releaseError) Error() string {
	return "release check: HTTP " + strconv.Itoa(e.status)
}

// IsNewerVersion reports whether latest is a newer semver than current.
func IsNewerVersion(latest, current string) bool {
	lMaj, lMin, lPatch := parseVersion(latest)
	cMaj, cMin, cPatch := parseVersion(current)
	if lMaj != cMaj {
		return lMaj > cMaj
	}
	if lMin != cMin {
		return lMin > cMin
	}
	return lPatch > cPatch
}

func parseVersion(v string) (maj, min, patch int) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	parts := strings.SplitN(v, ".", 3)
	nums := make([]int, 3)
	for i, p := range parts {
		nums[i] = cast.ToInt(p)
	}
	return nums[0], nums[1], nums[2]
}
