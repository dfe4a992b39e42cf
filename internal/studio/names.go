package studio

import (
	"path"
	"strings"
)

// AppendNewToName inserts "-new" before the extension: "room.jpg" becomes "room-new.jpg".
func AppendNewToName(name string) string {
	ext := path.Ext(name)
	if ext == "" || ext == name {
		return name + "-new"
	}
	return strings.TrimSuffix(name, ext) + "-new" + ext
}

// ThumbnailURL points an uploaded file's URL at its thumbnail variant by
// rewriting the first "/raw/" path segment. URLs without one are returned unchanged.
func ThumbnailURL(rawURL string) string {
	return strings.Replace(rawURL, "/raw/", "/thumbnail/", 1)
}
