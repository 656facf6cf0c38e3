package notifications

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"jaytaylor.com/html2text"

	"github.com/pawtrail/pawtrail-api/domain"
)

// rawEmail generates a multi-part MIME email message with a plain text part
// derived from the html part:
//
//   - multipart/alternative
//   - text/plain
//   - text/html
func rawEmail(to, from, subject, body string) []byte {
	tbody, err := html2text.FromString(body)
	if err != nil {
		domain.Logger.Printf("error converting html email to plain text ... %s", err.Error())
		tbody = body
	}

	b := &bytes.Buffer{}

	b.WriteString("From: " + from + "\n")
	b.WriteString("To: " + to + "\n")
	b.WriteString("Subject: " + subject + "\n")
	b.WriteString("MIME-Version: 1.0\n")

	alternativeWriter := multipart.NewWriter(b)
	b.WriteString(`Content-Type: multipart/alternative; type="text/plain"; boundary="` +
		alternativeWriter.Boundary() + `"` + "\n\n")

	w, err := alternativeWriter.CreatePart(textproto.MIMEHeader{
		"Content-Type":        {"text/plain; charset=utf-8"},
		"Content-Disposition": {"inline"},
	})
	if err != nil {
		domain.ErrLogger.Printf("failed to create MIME text part, %s", err)
	} else {
		_, _ = fmt.Fprint(w, tbody)
	}

	w, err = alternativeWriter.CreatePart(textproto.MIMEHeader{
		"Content-Type":        {"text/html; charset=utf-8"},
		"Content-Disposition": {"inline"},
	})
	if err != nil {
		domain.ErrLogger.Printf("failed to create MIME html part, %s", err)
	} else {
		_, _ = fmt.Fprint(w, body)
	}

	if err = alternativeWriter.Close(); err != nil {
		domain.ErrLogger.Printf("failed to close MIME alternative part, %s", err)
	}

	return b.Bytes()
}
