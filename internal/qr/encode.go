package qr

import (
	"regexp"
	"strings"
)

// Encode returns the string a QR symbol must carry for c. It never fails
// and never validates: empty fields produce empty segments.
func Encode(c Content) string {
	v := c.Active()
	if v == nil {
		return ""
	}
	return v.Payload()
}

func (v URLContent) Payload() string    { return v.URL }
func (v TextContent) Payload() string   { return v.Text }
func (v SocialContent) Payload() string { return v.URL }
func (v PhoneContent) Payload() string  { return "tel:" + v.Number }

func (v EmailContent) Payload() string {
	var b strings.Builder
	b.WriteString("mailto:")
	b.WriteString(v.Address)
	sep := "?"
	if v.Subject != "" {
		b.WriteString(sep + "subject=" + encodeURIComponent(v.Subject))
		sep = "&"
	}
	if v.Body != "" {
		b.WriteString(sep + "body=" + encodeURIComponent(v.Body))
	}
	return b.String()
}

func (v SMSContent) Payload() string {
	s := "sms:" + v.Number
	if v.Message != "" {
		s += "?body=" + encodeURIComponent(v.Message)
	}
	return s
}

func (v VCardContent) Payload() string {
	return strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + v.Name,
		"ORG:" + v.Org,
		"TEL:" + v.Phone,
		"EMAIL:" + v.Email,
		"URL:" + v.URL,
		"END:VCARD",
	}, "\n")
}

// Payload keeps the trailing ";;" terminator that MECARD readers expect.
func (v MeCardContent) Payload() string {
	return "MECARD:N:" + v.Name + ";TEL:" + v.Phone + ";EMAIL:" + v.Email + ";;"
}

func (v LocationContent) Payload() string {
	return "geo:" + v.Latitude + "," + v.Longitude
}

func (v WifiContent) Payload() string {
	return "WIFI:T:" + v.Encryption + ";S:" + v.SSID + ";P:" + v.Password + ";;"
}

func (v EventContent) Payload() string {
	return strings.Join([]string{
		"BEGIN:VEVENT",
		"SUMMARY:" + v.Title,
		"LOCATION:" + v.Location,
		"DTSTART:" + icalDateTime(v.Start),
		"DTEND:" + icalDateTime(v.End),
		"END:VEVENT",
	}, "\n")
}

var localDateTime = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2})(?::(\d{2}))?$`)

// icalDateTime compacts a datetime-local value (2024-05-01T10:00) into the
// iCalendar basic form (20240501T100000). Anything else passes through.
func icalDateTime(s string) string {
	m := localDateTime.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	sec := m[6]
	if sec == "" {
		sec = "00"
	}
	return m[1] + m[2] + m[3] + "T" + m[4] + m[5] + sec
}

const upperHex = "0123456789ABCDEF"

// encodeURIComponent escapes everything except A-Z a-z 0-9 and -_.!~*'().
// Space becomes %20, not '+', which mail and SMS handlers require.
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if isUnreserved(ch) {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[ch>>4])
		b.WriteByte(upperHex[ch&15])
	}
	return b.String()
}

func isUnreserved(ch byte) bool {
	switch {
	case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", ch) >= 0
}
