package upgrade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-github/v60/github"
	"github.com/sirupsen/logrus"
)

const (
	// Repository owner and name for the langcontroller project
	repoOwner  = "langcontroller"
	repoName   = "langcontroller"
	binaryBase = "langcontroller"
)

// ErrUnversionedBuild is returned when the running binary carries no release version.
var ErrUnversionedBuild = errors.New("running an unversioned build")

// releaseSource looks up the latest published release.
type releaseSource interface {
	GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error)
}

// Result describes the outcome of an upgrade attempt
type Result struct {
	CurrentVersion string `json:"current_version"`
	LatestVersion  string `json:"latest_version"`
	Upgraded       bool   `json:"upgraded"`
	Message        string `json:"message"`
}

// Upgrader handles the upgrade process for the langcontroller binary
type Upgrader struct {
	releases releaseSource
	http     *http.Client
	log      *logrus.Entry
}

// NewUpgrader creates a new upgrader instance
func NewUpgrader(logger *logrus.Logger) *Upgrader {
	return &Upgrader{
		releases: github.NewClient(nil).Repositories,
		http:     http.DefaultClient,
		log:      logger.WithField("component", "upgrade"),
	}
}

// CheckForUpdate reports the latest release and whether it is newer than currentVersion
func (u *Upgrader) CheckForUpdate(ctx context.Context, currentVersion string) (*github.RepositoryRelease, bool, error) {
	current, err := semver.NewVersion(strings.TrimPrefix(currentVersion, "v"))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %q", ErrUnversionedBuild, currentVersion)
	}

	release, _, err := u.releases.GetLatestRelease(ctx, repoOwner, repoName)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get latest release: %w", err)
	}

	latest, err := semver.NewVersion(strings.TrimPrefix(release.GetTagName(), "v"))
	if err != nil {
		return nil, false, fmt.Errorf("latest release tag %q is not a version: %w", release.GetTagName(), err)
	}

	u.log.WithFields(logrus.Fields{"current": current.String(), "latest": latest.String()}).Debug("Compared versions")
	return release, latest.GreaterThan(current), nil
}

// GetBinaryName returns the expected release asset name for the current platform
func (u *Upgrader) GetBinaryName() string {
	return binaryName(runtime.GOOS, runtime.GOARCH)
}

func binaryName(goos, goarch string) string {
	switch goarch {
	case "amd64", "386", "arm64", "arm":
	default:
		goarch = "amd64"
	}

	switch goos {
	case "darwin":
		return fmt.Sprintf("%s-macos-%s", binaryBase, goarch)
	case "windows":
		return fmt.Sprintf("%s-windows-%s.exe", binaryBase, goarch)
	default:
		return fmt.Sprintf("%s-%s-%s", binaryBase, goos, goarch)
	}
}

// DownloadBinary downloads the binary for the current platform from a release
func (u *Upgrader) DownloadBinary(ctx context.Context, release *github.RepositoryRelease) (string, error) {
	name := u.GetBinaryName()

	var asset *github.ReleaseAsset
	for _, a := range release.Assets {
		if a.GetName() == name {
			asset = a
			break
		}
	}
	if asset == nil {
		return "", fmt.Errorf("binary %s not found in release %s", name, release.GetTagName())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.GetBrowserDownloadURL(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := u.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download binary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download binary: HTTP %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp("", binaryBase+"-upgrade-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		_ = os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to write binary to temporary file: %w", err)
	}

	// #nosec G302 -- executable binary requires 0755 permissions
	if err := os.Chmod(tmpFile.Name(), 0o755); err != nil {
		_ = os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to make binary executable: %w", err)
	}

	u.log.WithField("path", tmpFile.Name()).Debug("Downloaded binary")
	return tmpFile.Name(), nil
}

// ReplaceBinary replaces the binary at currentPath with the one at newBinaryPath,
// restoring the previous binary if the copy fails
func (u *Upgrader) ReplaceBinary(currentPath, newBinaryPath string) error {
	backupPath := filepath.Join(filepath.Dir(currentPath), filepath.Base(currentPath)+".backup")
	if err := copyFile(currentPath, backupPath); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	if err := copyFile(newBinaryPath, currentPath); err != nil {
		_ = copyFile(backupPath, currentPath)
		_ = os.Remove(backupPath)
		return fmt.Errorf("failed to replace binary: %w", err)
	}

	// #nosec G302 -- executable binary requires 0755 permissions
	if err := os.Chmod(currentPath, 0o755); err != nil {
		_ = copyFile(backupPath, currentPath)
		_ = os.Remove(backupPath)
		return fmt.Errorf("failed to make new binary executable: %w", err)
	}

	_ = os.Remove(backupPath)
	_ = os.Remove(newBinaryPath)

	u.log.WithField("path", currentPath).Debug("Binary replacement completed")
	return nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	// #nosec G304 -- file paths are controlled and validated in calling functions
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	// #nosec G304 -- file paths are controlled and validated in calling functions
	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}

// Upgrade performs the complete upgrade process
func (u *Upgrader) Upgrade(ctx context.Context, currentVersion string) (*Result, error) {
	result := &Result{CurrentVersion: currentVersion}

	release, hasUpdate, err := u.CheckForUpdate(ctx, currentVersion)
	if err != nil {
		return nil, err
	}
	result.LatestVersion = release.GetTagName()

	if !hasUpdate {
		result.Message = fmt.Sprintf("Already running the latest version (%s)", currentVersion)
		return result, nil
	}

	u.log.WithField("latest", release.GetTagName()).Info("Downloading new binary")
	newBinaryPath, err := u.DownloadBinary(ctx, release)
	if err != nil {
		return nil, fmt.Errorf("failed to download new binary: %w", err)
	}

	currentPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get current executable path: %w", err)
	}
	if err := u.ReplaceBinary(currentPath, newBinaryPath); err != nil {
		return nil, err
	}

	result.Upgraded = true
	result.Message = fmt.Sprintf("Upgraded from %s to %s", currentVersion, release.GetTagName())
	u.log.WithField("latest", release.GetTagName()).Info("Upgrade completed")
	return result, nil
}
