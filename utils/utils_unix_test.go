//go:build unix

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceDir(t *testing.T) {
	cases := []struct {
		file string
		want string
	}{
		{
			file: "/Users/name/go/pkg/mod/gorm.io/oci@v1.2.3/utils/utils.go",
			want: "/Users/name/go/pkg/mod/gorm.io/",
		},
		{
			file: "/go/work/proj/oci/utils/utils.go",
			want: "/go/work/proj/oci/",
		},
		{
			file: "/go/work/proj/my.gorm.io/oci@v1.2.3/utils/utils.go",
			want: "/go/work/proj/my.gorm.io/oci@v1.2.3/",
		},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, sourceDir(c.file), c.file)
	}
}
