package docload

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// readDOCX extracts paragraph texts from a .docx archive. The document body
// lives in word/document.xml as WordprocessingML; text runs are <w:t>
// elements grouped into <w:p> paragraphs. Decoding stops at the first XML
// error and returns whatever paragraphs were recovered up to that point.
func readDOCX(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var doc io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			if err != nil {
				return nil, err
			}
			break
		}
	}
	if doc == nil {
		return nil, errors.New("docx: no word/document.xml in archive")
	}
	defer doc.Close()

	return paragraphsFromXML(doc), nil
}

func paragraphsFromXML(r io.Reader) []string {
	dec := xml.NewDecoder(r)
	var paras []string
	var cur strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err != nil {
			// Partial extraction boundary: keep what we have.
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				cur.WriteByte('\t')
			case "br", "cr":
				cur.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paras = append(paras, cur.String())
				cur.Reset()
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}
	if cur.Len() > 0 {
		paras = append(paras, cur.String())
	}
	return paras
}
