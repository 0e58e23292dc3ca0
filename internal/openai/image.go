// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package openai

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxImageSize bounds image attachments; larger files are rejected before
// encoding rather than ballooning the request payload.
const MaxImageSize = 20 * 1024 * 1024

var imageMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// EncodeImageDataURL reads an image file and returns it as a base64 data URL
// suitable for an image_url content part.
func EncodeImageDataURL(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mime, ok := imageMIMETypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q (want jpg, png, gif, or webp)", ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat image: %w", err)
	}
	if info.Size() > MaxImageSize {
		return "", fmt.Errorf("image %s is %d bytes, exceeds %d byte limit", path, info.Size(), MaxImageSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
