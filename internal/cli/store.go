package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/edopica/expect-test/internal/snapstore"
)

// discoverModules lists module names with a store file under dir.
func discoverModules(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("read snapshot directory %s", dir), err)
	}

	var modules []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), snapstore.FileSuffix) {
			continue
		}
		modules = append(modules, strings.TrimSuffix(entry.Name(), snapstore.FileSuffix))
	}
	sort.Strings(modules)
	return modules, nil
}

// errCodeFor maps a store failure to its CLI error code.
func errCodeFor(err error) string {
	var corrupt *snapstore.CorruptError
	if errors.As(err, &corrupt) {
		return ErrCodeCorrupt
	}
	var locked *snapstore.LockTimeoutError
	if errors.As(err, &locked) {
		return ErrCodeLockTimeout
	}
	return ErrCodeGeneric
}

// openStore loads a module store, mapping store failures to exit codes.
func openStore(dir, module string) (*snapstore.Store, error) {
	store, err := snapstore.Load(dir, module, snapstore.Options{})
	if err != nil {
		var corrupt *snapstore.CorruptError
		if errors.As(err, &corrupt) {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("store for module %q is corrupt", module), err)
		}
		var locked *snapstore.LockTimeoutError
		if errors.As(err, &locked) {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("store for module %q is locked", module), err)
		}
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("load store for module %q", module), err)
	}
	return store, nil
}
