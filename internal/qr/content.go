package qr

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// DecoderURL is the page that turns content/vcard query parameters back into
// a readable card. It is embedded in payloads, never fetched.
const DecoderURL = "https://negiao-pages.share.connect.posit.cloud/Others/decoder.html"

// ContactField is a recognized contact card key.
type ContactField string

const (
	FieldName    ContactField = "name"
	FieldTitle   ContactField = "title"
	FieldCompany ContactField = "company"
	FieldTel     ContactField = "tel"
	FieldEmail   ContactField = "email"
	FieldWeChat  ContactField = "wechat"
	FieldQQ      ContactField = "qq"
	FieldAlipay  ContactField = "alipay"
	FieldWebsite ContactField = "website"
	FieldAddress ContactField = "address"
	FieldNote    ContactField = "note"
)

// ContactFields is the canonical field order used for both the preview and
// the JSON payload.
var ContactFields = []ContactField{
	FieldName, FieldTitle, FieldCompany, FieldTel, FieldEmail,
	FieldWeChat, FieldQQ, FieldAlipay, FieldWebsite, FieldAddress, FieldNote,
}

// ContactCard maps fields to values. Unknown keys are ignored.
type ContactCard map[ContactField]string

// Compact returns a copy holding only recognized, non-empty fields.
func (c ContactCard) Compact() ContactCard {
	out := ContactCard{}
	for _, f := range ContactFields {
		if v := c[f]; v != "" {
			out[f] = v
		}
	}
	return out
}

// Labels are the display names of contact fields in one language.
type Labels map[ContactField]string

var (
	LabelsChinese = Labels{
		FieldName:    "姓名",
		FieldTitle:   "职位",
		FieldCompany: "公司",
		FieldTel:     "电话",
		FieldEmail:   "邮箱",
		FieldWeChat:  "微信",
		FieldQQ:      "QQ",
		FieldAlipay:  "支付宝",
		FieldWebsite: "网站",
		FieldAddress: "地址",
		FieldNote:    "备注",
	}
	LabelsEnglish = Labels{
		FieldName:    "Name",
		FieldTitle:   "Title",
		FieldCompany: "Company",
		FieldTel:     "Phone",
		FieldEmail:   "Email",
		FieldWeChat:  "WeChat",
		FieldQQ:      "QQ",
		FieldAlipay:  "Alipay",
		FieldWebsite: "Website",
		FieldAddress: "Address",
		FieldNote:    "Note",
	}
)

var labelMatcher = language.NewMatcher([]language.Tag{
	language.Chinese,
	language.English,
})

// LabelsFor picks the label set best matching an Accept-Language style list.
// Chinese is the default.
func LabelsFor(acceptLanguage string) Labels {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LabelsChinese
	}
	_, idx, conf := labelMatcher.Match(tags...)
	if conf == language.No || idx == 0 {
		return LabelsChinese
	}
	return LabelsEnglish
}

// Preview renders "<label>: <value>" lines in canonical order, skipping empty fields.
func (c ContactCard) Preview(labels Labels) string {
	lines := make([]string, 0, len(ContactFields))
	for _, f := range ContactFields {
		v := c[f]
		if v == "" {
			continue
		}
		label, ok := labels[f]
		if !ok {
			label = string(f)
		}
		lines = append(lines, label+": "+v)
	}
	return strings.Join(lines, "\n")
}

// MarshalJSON writes non-empty fields in canonical order without escaping
// non-ASCII text, using ", " and ": " separators.
func (c ContactCard) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, f := range ContactFields {
		v := c[f]
		if v == "" {
			continue
		}
		if !first {
			buf.WriteString(", ")
		}
		first = false
		if err := writeJSONString(&buf, string(f)); err != nil {
			return nil, err
		}
		buf.WriteString(": ")
		if err := writeJSONString(&buf, v); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// Payload returns the literal string that gets encoded for cfg.
func Payload(cfg GenerationConfig) (string, error) {
	switch cfg.ContentType {
	case ContentURL:
		return cfg.Content, nil
	case ContentBatchURLs:
		return "", errors.Wrap(ErrInvalidConfig, "batch configs have one payload per line; use SplitBatch")
	}
	q, err := decoderQuery(cfg)
	if err != nil {
		return "", err
	}
	return DecoderURL + "?" + q, nil
}

// decoderQuery builds "type=..&content=.." or "type=..&vcard=..", never both.
func decoderQuery(cfg GenerationConfig) (string, error) {
	q := "type=" + quoteAll(cfg.ContentType.Tag())
	if card := cfg.Contact.Compact(); len(card) > 0 {
		b, err := card.MarshalJSON()
		if err != nil {
			return "", errors.Wrap(err, "encode contact card")
		}
		return q + "&vcard=" + quoteAll(string(b)), nil
	}
	if cfg.Content != "" {
		return q + "&content=" + quoteAll(cfg.Content), nil
	}
	return q, nil
}

// quoteAll percent-encodes everything except A-Z a-z 0-9 and "-_.~".
func quoteAll(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// SplitBatch splits s on newlines, trims each line and drops blank lines.
func SplitBatch(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
