package config_test

import (
	"fmt"
	"os"

	"github.com/zodiacal/horoscope-api/pkg/config"
)

// Example shows the usual startup sequence: load once, pass the struct
// down. Binaries never read the environment directly.
func Example() {
	os.Setenv("STORAGE_BACKEND", "memory")
	defer os.Unsetenv("STORAGE_BACKEND")

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("config rejected:", err)
		return
	}

	fmt.Println("backend:", cfg.Storage.Backend)
	fmt.Println("redis enabled:", cfg.Redis.Enabled)
	// Output:
	// backend: memory
	// redis enabled: false
}
