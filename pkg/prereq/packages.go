// pkg/prereq/packages.go
package prereq

import (
	"os"
	"path/filepath"

	"github.com/TheFakeLorLyons/brainflow-java/pkg/platform"
)

// ForFamily returns the prerequisite descriptors for an OS family. The
// boards speak over USB serial, so libusb matters everywhere; on Windows
// the native libraries additionally require the Visual C++ runtime, and
// that one is required because the DLLs refuse to load without it.
func ForFamily(osf platform.OSFamily) []Dependency {
	switch osf {
	case platform.OSLinux:
		return []Dependency{
			{
				Name:      "libusb-1.0",
				Required:  false,
				Priority:  1,
				Mechanism: MechanismPackageManager,
				Detect:    func() bool { return sharedLibraryPresent("libusb-1.0.so") },
				Installers: [][]string{
					{"apt-get", "install", "-y", "libusb-1.0-0"},
					{"dnf", "install", "-y", "libusbx"},
					{"pacman", "-S", "--noconfirm", "libusb"},
					{"zypper", "install", "-y", "libusb-1_0-0"},
					{"apk", "add", "libusb"},
				},
			},
			{
				Name:      "build-essential",
				Required:  false,
				Priority:  2,
				Mechanism: MechanismPackageManager,
				Detect:    func() bool { return commandExists("cc") || commandExists("gcc") },
				Installers: [][]string{
					{"apt-get", "install", "-y", "build-essential"},
					{"dnf", "groupinstall", "-y", "Development Tools"},
				},
			},
		}

	case platform.OSMacOS:
		return []Dependency{
			{
				Name:      "libusb",
				Required:  false,
				Priority:  1,
				Mechanism: MechanismPackageManager,
				Detect:    func() bool { return sharedLibraryPresent("libusb-1.0.dylib") },
				Installers: [][]string{
					{"brew", "install", "libusb"},
				},
			},
		}

	case platform.OSWindows:
		return []Dependency{
			{
				Name:      "vc-redistributable",
				Required:  true,
				Priority:  1,
				Mechanism: MechanismPackageManager,
				Detect:    vcRuntimePresent,
				Installers: [][]string{
					{"winget", "install", "--accept-package-agreements", "--accept-source-agreements", "Microsoft.VCRedist.2015+.x64"},
					{"choco", "install", "-y", "vcredist140"},
				},
			},
		}

	default:
		return nil
	}
}

// vcRuntimePresent checks for the Visual C++ runtime DLL under the system
// root, the same check the DLL loader itself performs.
func vcRuntimePresent() bool {
	systemRoot := os.Getenv("SystemRoot")
	if systemRoot == "" {
		systemRoot = `C:\Windows`
	}
	_, err := os.Stat(filepath.Join(systemRoot, "System32", "vcruntime140.dll"))
	return err == nil
}

// sharedLibraryPresent scans the conventional library directories for a
// file carrying the given prefix.
func sharedLibraryPresent(name string) bool {
	dirs := []string{
		"/usr/lib", "/usr/local/lib", "/usr/lib64",
		"/usr/lib/x86_64-linux-gnu", "/usr/lib/aarch64-linux-gnu",
		"/opt/homebrew/lib",
	}
	for _, dir := range dirs {
		matches, _ := filepath.Glob(filepath.Join(dir, name+"*"))
		if len(matches) > 0 {
			return true
		}
	}
	return false
}
