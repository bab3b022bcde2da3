package email

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"gopkg.in/gomail.v2"

	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	vo "github.com/ibis1225/pet-ai/internal/domain/consultation/valueobjects"
	"github.com/ibis1225/pet-ai/internal/shared/biztime"
	"github.com/ibis1225/pet-ai/internal/shared/config"
	"github.com/ibis1225/pet-ai/internal/shared/logger"
	"github.com/ibis1225/pet-ai/internal/shared/utils"
)

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// ConsultationNotifier mails operators when a guardian submits an intake.
type ConsultationNotifier struct {
	config config.NotificationConfig
	sender sender
	logger logger.Interface
}

func NewConsultationNotifier(cfg config.NotificationConfig, log logger.Interface) *ConsultationNotifier {
	return &ConsultationNotifier{
		config: cfg,
		sender: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		logger: log,
	}
}

// NotifySubmitted sends one message to every configured recipient. It is a
// no-op when notifications are disabled or nobody is configured.
func (n *ConsultationNotifier) NotifySubmitted(ctx context.Context, c *consultation.Consultation) error {
	if !n.config.Enabled || len(n.config.Recipients) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, htmlBody, plainBody, err := renderSubmitted(c, n.config.AdminBaseURL)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.config.FromAddress, n.config.FromName)
	m.SetHeader("To", n.config.Recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Infow("consultation notification sent",
		"ticket_number", c.TicketNumber(),
		"recipients", len(n.config.Recipients))
	return nil
}

type submittedView struct {
	TicketNumber  string
	MemberType    string
	GuardianName  string
	GuardianPhone string
	Pet           string
	Category      string
	Urgency       string
	PreferredTime string
	Description   string
	SubmittedAt   string
	AdminURL      string
	Emergency     bool
}

var submittedHTML = htmltemplate.Must(htmltemplate.New("submitted").Parse(`<html>
<body>
	<h2>{{if .Emergency}}🚨 {{end}}새 상담 신청 {{.TicketNumber}}</h2>
	<table>
		<tr><td>회원 유형</td><td>{{.MemberType}}</td></tr>
		<tr><td>보호자</td><td>{{.GuardianName}} ({{.GuardianPhone}})</td></tr>
		<tr><td>반려동물</td><td>{{.Pet}}</td></tr>
		<tr><td>상담 분야</td><td>{{.Category}}</td></tr>
		<tr><td>긴급도</td><td>{{.Urgency}}</td></tr>
		<tr><td>선호 시간</td><td>{{.PreferredTime}}</td></tr>
		<tr><td>접수 시각</td><td>{{.SubmittedAt}}</td></tr>
	</table>
	<p style="white-space: pre-wrap">{{.Description}}</p>
	{{if .AdminURL}}<p><a href="{{.AdminURL}}">관리자 화면에서 보기</a></p>{{end}}
</body>
</html>
`))

var submittedText = texttemplate.Must(texttemplate.New("submitted").Parse(`새 상담 신청 {{.TicketNumber}}

회원 유형: {{.MemberType}}
보호자: {{.GuardianName}} ({{.GuardianPhone}})
반려동물: {{.Pet}}
상담 분야: {{.Category}}
긴급도: {{.Urgency}}
선호 시간: {{.PreferredTime}}
접수 시각: {{.SubmittedAt}}

{{.Description}}
{{if .AdminURL}}
{{.AdminURL}}
{{end}}`))

func renderSubmitted(c *consultation.Consultation, adminBaseURL string) (subject, htmlBody, plainBody string, err error) {
	view := submittedView{
		TicketNumber:  c.TicketNumber(),
		MemberType:    c.MemberType().Label(),
		GuardianName:  c.GuardianName(),
		GuardianPhone: c.GuardianPhone(),
		Pet:           fmt.Sprintf("%s / %s / %s", c.PetType().Label(), c.PetName(), c.PetAge()),
		Category:      fmt.Sprintf("%s > %s", c.Category().Label(), c.SubcategoryLabel()),
		Urgency:       c.Urgency().Label(),
		PreferredTime: vo.PreferredTimeLabel(c.PreferredTime()),
		Description:   c.Description(),
		Emergency:     c.Category() == vo.CategoryEmergency || c.Urgency() == vo.UrgencyUrgent,
	}
	if at := c.CompletedAt(); at != nil {
		view.SubmittedAt = at.In(biztime.Location()).Format("2006-01-02 15:04")
	}
	if adminBaseURL != "" {
		view.AdminURL = strings.TrimRight(adminBaseURL, "/") + "/consultations/" + c.ID()
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := submittedHTML.Execute(&htmlBuf, view); err != nil {
		return "", "", "", fmt.Errorf("failed to render html body: %w", err)
	}
	if err := submittedText.Execute(&textBuf, view); err != nil {
		return "", "", "", fmt.Errorf("failed to render text body: %w", err)
	}

	subject = fmt.Sprintf("[상담 신청] %s %s - %s", view.TicketNumber, c.Category().Label(), utils.MaskName(c.GuardianName()))
	if view.Emergency {
		subject = "[긴급] " + subject
	}
	return subject, htmlBuf.String(), textBuf.String(), nil
}
