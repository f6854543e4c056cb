package banners

import (
	"fmt"

	"github.com/common-fate/jit/internal/build"
)

func WithVersion() string {
	return fmt.Sprintf("jit version: %s\n", build.Version)
}
