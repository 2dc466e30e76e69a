package ptypump

import (
	"os"
	"os/exec"
	"os/user"
	"strings"

	"github.com/javanhut/vtcore/config"
)

// SpawnShell builds (but does not start) the login-shell command a Pump
// should run, honoring cfg.Shell and falling back to the user's /etc/passwd
// entry and then a hardcoded search list, adapted from the teacher's own
// shell-discovery logic.
func SpawnShell(cfg *config.Config) (*exec.Cmd, error) {
	shellPath := findShell(cfg)

	currentUser, err := user.Current()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(shellPath, "-i")
	cmd.Dir = currentUser.HomeDir

	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"TERM=vt100",
		"HOME=" + currentUser.HomeDir,
		"USER=" + currentUser.Username,
		"SHELL=" + shellPath,
	}
	for k, v := range cfg.AdditionalEnv {
		env = append(env, k+"="+v)
	}
	cmd.Env = env

	return cmd, nil
}

func findShell(cfg *config.Config) string {
	if cfg.Shell != "" {
		if _, err := os.Stat(cfg.Shell); err == nil {
			return cfg.Shell
		}
	}

	if currentUser, err := user.Current(); err == nil {
		if shell := passwdShell(currentUser.Username); shell != "" {
			if _, err := os.Stat(shell); err == nil {
				return shell
			}
		}
	}

	for _, shell := range config.GetAvailableShells() {
		return shell
	}
	return "/bin/sh"
}

// passwdShell reads /etc/passwd directly rather than linking cgo's getpwnam,
// matching the reference's plain-text lookup.
func passwdShell(username string) string {
	data, err := os.ReadFile("/etc/passwd")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Split(line, ":")
		if len(fields) >= 7 && fields[0] == username {
			return fields[6]
		}
	}
	return ""
}
