package script

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
)

// toc.ncx layout, only the parts needed for chapter titles.
type ncx struct {
	NavPoints []navPoint `xml:"navMap>navPoint"`
}

type navPoint struct {
	Label    string     `xml:"navLabel>text"`
	Src      navSrc     `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

type navSrc struct {
	Src string `xml:"src,attr"`
}

var errNoNCX = errors.New("no NCX table of contents")

// chapterTitles maps spine document names to their table of contents label.
// Books without an NCX yield an empty map.
func chapterTitles(filename string, book *epub.Rootfile) map[string]string {
	data, err := readNCX(filename, book)
	if err != nil {
		return map[string]string{}
	}
	return titlesFromNCX(data)
}

// titlesFromNCX keys each label by document path and by base name, with
// fragments stripped. The first label seen for a document wins.
func titlesFromNCX(data []byte) map[string]string {
	titles := make(map[string]string)

	var doc ncx
	if err := xml.Unmarshal(data, &doc); err != nil {
		return titles
	}

	var walk func([]navPoint)
	walk = func(points []navPoint) {
		for _, np := range points {
			title := strings.Join(strings.Fields(np.Label), " ")
			href, _, _ := strings.Cut(np.Src.Src, "#")
			if title != "" && href != "" {
				for _, k := range []string{href, path.Base(href)} {
					if _, ok := titles[k]; !ok {
						titles[k] = title
					}
				}
			}
			walk(np.Children)
		}
	}
	walk(doc.NavPoints)
	return titles
}

// lookupTitle finds the label for a manifest href.
func lookupTitle(titles map[string]string, href string) string {
	if t, ok := titles[href]; ok {
		return t
	}
	return titles[path.Base(href)]
}

func readNCX(filename string, book *epub.Rootfile) ([]byte, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var ncxPath string
	for _, item := range book.Manifest.Items {
		if item.MediaType == "application/x-dtbncx+xml" {
			ncxPath = item.HREF
			break
		}
	}

	for _, f := range zr.File {
		match := strings.HasSuffix(strings.ToLower(f.Name), ".ncx")
		if ncxPath != "" {
			match = f.Name == ncxPath || strings.HasSuffix(f.Name, "/"+ncxPath)
		}
		if !match {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, errNoNCX
}
