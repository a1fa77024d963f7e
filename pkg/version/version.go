package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"
)

// Valores padrão (sobrescritos por ldflags ou por build info)
var (
	Version   = "0.0.0-dev"
	Commit    = ""
	BuildTime = ""
)

// ReleasesURL é o endpoint consultado para descobrir a última versão publicada.
var ReleasesURL = "https://api.github.com/repos/diillson/cost-insights-dashboard-go/releases/latest"

func init() {
	populateFromBuildInfo(debug.ReadBuildInfo)
}

// populateFromBuildInfo preenche Version/Commit/BuildTime a partir das
// informações de VCS embutidas pelo Go quando ldflags não as definiu.
func populateFromBuildInfo(read func() (*debug.BuildInfo, bool)) {
	if Version != "" && Version != "0.0.0-dev" {
		return
	}

	bi, ok := read()
	if !ok || bi == nil {
		return
	}

	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}

	if Commit == "" && len(settings["vcs.revision"]) >= 7 {
		Commit = settings["vcs.revision"][:7]
	}

	if BuildTime == "" {
		if ts, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	if strings.EqualFold(settings["vcs.modified"], "true") && !strings.HasSuffix(Version, "-dirty") {
		Version += "-dirty"
	}
}

// FormatVersion retorna a versão formatada com commit e build time.
// Ex.: "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = "0.0.0-dev"
	}

	switch {
	case Commit == "" && BuildTime == "":
		return fmt.Sprintf("%s (development)", ver)
	case BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	case Commit == "":
		return fmt.Sprintf("%s (built at: %s)", ver, BuildTime)
	}
	return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, Commit, BuildTime)
}

// LatestVersion fetches the latest published release and reports whether
// it is newer than current. Development builds are never checked.
func LatestVersion(ctx context.Context, client *http.Client, current string) (string, bool, error) {
	if strings.HasSuffix(current, "-dev") || strings.HasSuffix(current, "-dirty") {
		return "", false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ReleasesURL, nil)
	if err != nil {
		return "", false, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("releases endpoint returned %d", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", false, err
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	return latest, IsNewer(latest, current), nil
}

// IsNewer compares dotted numeric versions. Non-numeric parts count as zero.
func IsNewer(candidate, current string) bool {
	a, b := versionParts(candidate), versionParts(current)
	for i := 0; i < len(a) || i < len(b); i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			return x > y
		}
	}
	return false
}

func versionParts(v string) []int {
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	fields := strings.Split(v, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		parts[i], _ = strconv.Atoi(f)
	}
	return parts
}
