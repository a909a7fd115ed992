package configs

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"slices"
	"strings"
)

const defaultXMLRoot = "emailConfiguration"

type xmlCodec struct{}

// xmlDocument mirrors the XML layout. Scalars are read as text and booleans
// are true only for a case-insensitive "true", anything else is false.
type xmlDocument struct {
	XMLName    xml.Name
	Type       string         `xml:"type,attr"`
	SMTP       xmlSMTP        `xml:"smtpSettings"`
	Recipients []xmlRecipient `xml:"recipients>recipient"`
	Templates  []xmlTemplate  `xml:"templates>template"`

	// Bare entries directly under the root are accepted on read.
	BareRecipients []xmlRecipient `xml:"recipient"`
	BareTemplates  []xmlTemplate  `xml:"template"`
}

type xmlSMTP struct {
	Host     string `xml:"host"`
	Port     string `xml:"port"`
	Username string `xml:"username"`
	Password string `xml:"password"`
	UseSSL   string `xml:"useSSL"`
	UseTLS   string `xml:"useTLS"`
}

type xmlRecipient struct {
	Name   string `xml:"name"`
	Email  string `xml:"email"`
	Type   string `xml:"type,omitempty"`
	Active string `xml:"active"`
}

type xmlTemplate struct {
	Name    string `xml:"name"`
	Path    string `xml:"path"`
	Subject string `xml:"subject,omitempty"`
	Active  string `xml:"active"`
}

func (xmlCodec) Decode(data []byte, doc *Document) error {
	var x xmlDocument
	if err := xml.Unmarshal(data, &x); err != nil {
		return err
	}

	doc.root = x.XMLName.Local
	doc.source = append([]byte(nil), data...)
	doc.Type = Mode(strings.TrimSpace(x.Type))
	doc.SMTP = SMTPSettings{
		Host:     strings.TrimSpace(x.SMTP.Host),
		Port:     Port(strings.TrimSpace(x.SMTP.Port)),
		Username: x.SMTP.Username,
		Password: x.SMTP.Password,
		UseSSL:   parseFlag(x.SMTP.UseSSL),
		UseTLS:   parseFlag(x.SMTP.UseTLS),
	}

	doc.Recipients = make([]RecipientEntry, 0, len(x.Recipients)+len(x.BareRecipients))
	for _, r := range append(x.Recipients, x.BareRecipients...) {
		doc.Recipients = append(doc.Recipients, RecipientEntry{
			Name:   r.Name,
			Email:  strings.TrimSpace(r.Email),
			Type:   r.Type,
			Active: parseFlag(r.Active),
		})
	}

	doc.Templates = make([]TemplateEntry, 0, len(x.Templates)+len(x.BareTemplates))
	for _, t := range append(x.Templates, x.BareTemplates...) {
		doc.Templates = append(doc.Templates, TemplateEntry{
			Name:    t.Name,
			Path:    strings.TrimSpace(t.Path),
			Subject: t.Subject,
			Active:  parseFlag(t.Active),
		})
	}

	return nil
}

// Encode rewrites the source document in place when only the type and the
// sensitive SMTP values changed, keeping its layout byte for byte. Other
// documents are serialized from scratch.
func (c xmlCodec) Encode(doc *Document) ([]byte, error) {
	if doc.source != nil {
		if out, ok := c.rewrite(doc); ok {
			return out, nil
		}
	}

	root := doc.root
	if root == "" {
		root = defaultXMLRoot
	}

	x := xmlDocument{
		XMLName: xml.Name{Local: root},
		Type:    string(doc.Type),
		SMTP: xmlSMTP{
			Host:     doc.SMTP.Host,
			Port:     string(doc.SMTP.Port),
			Username: doc.SMTP.Username,
			Password: doc.SMTP.Password,
			UseSSL:   formatFlag(doc.SMTP.UseSSL),
			UseTLS:   formatFlag(doc.SMTP.UseTLS),
		},
	}
	for _, r := range doc.Recipients {
		x.Recipients = append(x.Recipients, xmlRecipient{
			Name:   r.Name,
			Email:  r.Email,
			Type:   r.Type,
			Active: formatFlag(r.Active),
		})
	}
	for _, t := range doc.Templates {
		x.Templates = append(x.Templates, xmlTemplate{
			Name:    t.Name,
			Path:    t.Path,
			Subject: t.Subject,
			Active:  formatFlag(t.Active),
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "    ")
	if err := enc.Encode(x); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func parseFlag(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

func formatFlag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// edit replaces source[start:end] with text.
type edit struct {
	start, end int64
	text       string
}

var typeAttr = regexp.MustCompile(`(\stype\s*=\s*)("[^"]*"|'[^']*')`)

// rewrite splices the new type attribute and sensitive values into
// doc.source. ok is false when the document changed in any other way or the
// source cannot be edited safely.
func (c xmlCodec) rewrite(doc *Document) ([]byte, bool) {
	var orig Document
	if err := c.Decode(doc.source, &orig); err != nil {
		return nil, false
	}
	if !sameExceptProtected(&orig, doc) {
		return nil, false
	}

	values := map[string]string{}
	if doc.SMTP.Username != orig.SMTP.Username {
		values["username"] = doc.SMTP.Username
	}
	if doc.SMTP.Password != orig.SMTP.Password {
		values["password"] = doc.SMTP.Password
	}

	var (
		edits   []edit
		stack   []string
		pending *edit
	)
	dec := xml.NewDecoder(bytes.NewReader(doc.source))
	for {
		before := dec.InputOffset()
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, false
		}
		after := dec.InputOffset()

		switch t := tok.(type) {
		case xml.StartElement:
			if pending != nil {
				return nil, false
			}
			if len(stack) == 0 && doc.Type != orig.Type {
				edits = append(edits, edit{before, after, setTypeAttr(string(doc.source[before:after]), string(doc.Type))})
			}
			stack = append(stack, t.Name.Local)

			if len(stack) == 3 && stack[1] == "smtpSettings" {
				if v, ok := values[t.Name.Local]; ok {
					if bytes.HasSuffix(doc.source[before:after], []byte("/>")) {
						return nil, false
					}
					pending = &edit{start: after, text: escapeText(v)}
					delete(values, t.Name.Local)
				}
			}
		case xml.EndElement:
			if pending != nil && len(stack) == 3 {
				pending.end = before
				edits = append(edits, *pending)
				pending = nil
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(values) > 0 {
		return nil, false
	}

	var out bytes.Buffer
	var at int64
	for _, e := range edits {
		out.Write(doc.source[at:e.start])
		out.WriteString(e.text)
		at = e.end
	}
	out.Write(doc.source[at:])
	return out.Bytes(), true
}

// sameExceptProtected reports whether a and b differ only in type and the
// sensitive SMTP values.
func sameExceptProtected(a, b *Document) bool {
	as, bs := a.SMTP, b.SMTP
	as.Username, as.Password = "", ""
	bs.Username, bs.Password = "", ""
	return as == bs &&
		a.root == b.root &&
		slices.Equal(a.Recipients, b.Recipients) &&
		slices.Equal(a.Templates, b.Templates)
}

// setTypeAttr sets the type attribute of a start tag, adding it if missing.
func setTypeAttr(tag, mode string) string {
	value := `"` + escapeText(mode) + `"`
	if loc := typeAttr.FindStringSubmatchIndex(tag); loc != nil {
		return tag[:loc[4]] + value + tag[loc[5]:]
	}
	end := strings.LastIndex(tag, ">")
	if strings.HasSuffix(tag, "/>") {
		end--
	}
	return tag[:end] + " type=" + value + tag[end:]
}

func escapeText(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
