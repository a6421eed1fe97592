package usecase

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"wego/internal/commons"
	"wego/internal/domain"
	"wego/internal/infrastructure/mailer"
)

type newsletterView struct {
	Greeting       string
	Paragraphs     []string
	Products       []productCard
	CompanyName    string
	PrimaryColor   string
	WebsiteURL     string
	UnsubscribeURL string
}

type productCard struct {
	Name          string
	Image         string
	URL           string
	Price         string
	OriginalPrice string
}

func newProductCard(p domain.Product, websiteURL string) productCard {
	card := productCard{
		Name:  p.Name,
		Image: p.Image,
		URL:   websiteURL + "/product/" + strconv.Itoa(p.ID),
		Price: commons.FormatPrice(p.Price),
	}
	if p.DiscountPrice != nil && *p.DiscountPrice < p.Price {
		card.Price = commons.FormatPrice(*p.DiscountPrice)
		card.OriginalPrice = commons.FormatPrice(p.Price)
	}
	return card
}

func composeNewsletterEmail(c campaign, subscriber domain.Subscriber, websiteURL string) (mailer.Message, error) {
	view := newsletterView{
		Greeting:       "Hello " + subscriber.DisplayName() + "!",
		CompanyName:    c.settings.CompanyName,
		PrimaryColor:   c.settings.PrimaryColor,
		WebsiteURL:     websiteURL,
		UnsubscribeURL: websiteURL + "/unsubscribe?email=" + url.QueryEscape(subscriber.Email),
	}
	if strings.TrimSpace(c.newsletter.Content) != "" {
		view.Paragraphs = strings.Split(c.newsletter.Content, "\n")
	}
	for _, p := range c.products {
		view.Products = append(view.Products, newProductCard(p, websiteURL))
	}

	var html bytes.Buffer
	if err := newsletterHTML.Execute(&html, view); err != nil {
		return mailer.Message{}, fmt.Errorf("rendering newsletter email: %w", err)
	}

	return mailer.Message{
		To:      subscriber.Email,
		Subject: c.newsletter.Subject,
		Text:    newsletterText(view),
		HTML:    html.String(),
	}, nil
}

func newsletterText(v newsletterView) string {
	var b strings.Builder
	b.WriteString(v.Greeting + "\n\n")
	for _, p := range v.Paragraphs {
		b.WriteString(p + "\n")
	}
	if len(v.Paragraphs) > 0 {
		b.WriteString("\n")
	}
	if len(v.Products) == 0 {
		b.WriteString("New products coming soon.\n\n")
	}
	for _, p := range v.Products {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", p.Name, p.Price, p.URL)
	}
	fmt.Fprintf(&b, "\nVisit our store: %s\n", v.WebsiteURL)
	fmt.Fprintf(&b, "Unsubscribe: %s\n", v.UnsubscribeURL)
	return b.String()
}

var newsletterHTML = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 0; background-color: {{.PrimaryColor}}; font-family: Arial, sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0" style="padding: 40px 20px;">
    <tr><td align="center">
      <table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px;">
        <tr><td style="padding: 30px;"><h1 style="margin: 0; font-size: 28px;">{{.Greeting}}</h1></td></tr>
        {{if .Paragraphs}}<tr><td style="padding: 0 30px 30px 30px; font-size: 16px; line-height: 1.6;">
          {{range $i, $line := .Paragraphs}}{{if $i}}<br>{{end}}{{$line}}{{end}}
        </td></tr>{{end}}
        <tr><td style="padding: 0 30px 20px 30px;">
          <h2 style="color: {{.PrimaryColor}}; text-align: center;">{{if .Products}}Check Out Our Latest Products{{else}}New Products Coming Soon{{end}}</h2>
          <table width="100%" cellpadding="0" cellspacing="0">
            {{range .Products}}<tr><td style="padding: 10px; text-align: center; border: 1px solid #e5e7eb;">
              <a href="{{.URL}}"><img src="{{.Image}}" alt="{{.Name}}" style="max-width: 100%; height: 180px;"></a>
              <h3><a href="{{.URL}}" style="color: #000000; text-decoration: none;">{{.Name}}</a></h3>
              {{if .OriginalPrice}}<p style="color: #9ca3af; text-decoration: line-through;">{{.OriginalPrice}}</p>{{end}}
              <p style="font-size: 18px; font-weight: bold; color: {{$.PrimaryColor}};">{{.Price}}</p>
            </td></tr>
            {{end}}
          </table>
        </td></tr>
        <tr><td style="padding: 20px 30px 30px 30px; text-align: center;">
          <a href="{{.WebsiteURL}}" style="padding: 15px 30px; background-color: {{.PrimaryColor}}; color: #ffffff; text-decoration: none;">Visit Our Store</a>
        </td></tr>
        <tr><td style="border-top: 1px solid #e5e7eb; padding: 20px; text-align: center; font-size: 12px; color: #9ca3af;">
          {{.CompanyName}}<br>
          <a href="{{.UnsubscribeURL}}" style="color: #9ca3af;">Unsubscribe</a>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>
`))
