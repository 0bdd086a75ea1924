// Package xmldump reads a MediaWiki XML dump (a stream of <page>/<revision>
// records) and feeds each revision's <text> body to a caller-supplied
// processing function (§6). It delegates the XML itself to the standard
// library's streaming decoder and never looks inside wikitext.
package xmldump

import (
	"encoding/xml"
	"io"
	"time"
)

// Page is one <page> element. Ns/Redirect supplement the core (pageid,
// title) tuple named in §6 with fields real dumps carry (§4).
type Page struct {
	PageID   int64
	Title    string
	Ns       int
	Redirect string
}

// Revision is one <revision> element of a page. Contributor/Comment/Model/
// Format/SHA1/ParentID are carried but ignored by the core walkers; only
// PageID/Title/RevID/Timestamp/Text are part of the driver's contract in
// §6.
type Revision struct {
	PageID      int64
	Title       string
	RevID       int64
	ParentID    int64
	Timestamp   time.Time
	Contributor string
	Comment     string
	Model       string
	Format      string
	SHA1        string
	Text        string
}

// xmlPage is the raw unmarshalling shape of a dump <page> element.
type xmlPage struct {
	XMLName xml.Name `xml:"page"`
	Title   string   `xml:"title"`
	Ns      int      `xml:"ns"`
	ID      int64    `xml:"id"`

	Redirect struct {
		Title string `xml:"title,attr"`
	} `xml:"redirect"`

	Revisions []xmlRevision `xml:"revision"`
}

type xmlRevision struct {
	ID        int64  `xml:"id"`
	ParentID  int64  `xml:"parentid"`
	Timestamp string `xml:"timestamp"`

	Contributor struct {
		Username string `xml:"username"`
		IP       string `xml:"ip"`
	} `xml:"contributor"`

	Comment string `xml:"comment"`
	Model   string `xml:"model"`
	Format  string `xml:"format"`
	SHA1    string `xml:"sha1"`

	Text struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

func (r xmlRevision) contributor() string {
	if r.Contributor.Username != "" {
		return r.Contributor.Username
	}
	return r.Contributor.IP
}

func parseTimestamp(s string) time.Time {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// toPageRevisions converts a decoded xmlPage into the (Page, []Revision) pair
// ProcessFunc consumes.
func toPageRevisions(raw xmlPage) (Page, []Revision) {
	page := Page{
		PageID:   raw.ID,
		Title:    raw.Title,
		Ns:       raw.Ns,
		Redirect: raw.Redirect.Title,
	}
	revs := make([]Revision, len(raw.Revisions))
	for i, rr := range raw.Revisions {
		revs[i] = Revision{
			PageID:      page.PageID,
			Title:       page.Title,
			RevID:       rr.ID,
			ParentID:    rr.ParentID,
			Timestamp:   parseTimestamp(rr.Timestamp),
			Contributor: rr.contributor(),
			Comment:     rr.Comment,
			Model:       rr.Model,
			Format:      rr.Format,
			SHA1:        rr.SHA1,
			Text:        rr.Text.Text,
		}
	}
	return page, revs
}

// Pages decodes mediawiki XML from r and yields one (Page, []Revision) pair
// per <page> element, in document order. It is a thin wrapper over
// encoding/xml's streaming Token loop (the only XML parsing the core does,
// per §1's "delegated to a standard XML streaming parser").
func Pages(r io.Reader, yield func(Page, []Revision) error) error {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "page" {
			continue
		}
		var raw xmlPage
		if err := dec.DecodeElement(&raw, &se); err != nil {
			return err
		}
		page, revs := toPageRevisions(raw)
		if err := yield(page, revs); err != nil {
			return err
		}
	}
}
