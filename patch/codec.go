// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package patch

import (
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// Compress stores diff content as xz stream.
func Compress(content string) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create xz writer")
	}
	if _, err := io.Copy(w, strings.NewReader(content)); err != nil {
		return nil, errors.Wrap(err, "could not compress diff")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "could not close xz writer")
	}
	return buf.Bytes(), nil
}

func Decompress(content []byte) (string, error) {
	r, err := xz.NewReader(bytes.NewReader(content))
	if err != nil {
		return "", errors.Wrap(err, "could not create xz reader")
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return "", errors.Wrap(err, "could not decompress diff")
	}
	return strings.ToValidUTF8(sb.String(), "�"), nil
}
