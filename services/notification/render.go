package notification

import (
	"fmt"
	"strings"

	"putzelf/models"
)

const confirmationSubject = "Your Booking Confirmation – PutzELF"

// placeholder substitutes missing optional booking fields so rendering never
// fails on incomplete data.
const placeholder = "N/A"

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// addOnNames returns human-readable add-on names, or the placeholder when
// none are selected.
func addOnNames(addOns []models.AddOn) string {
	if len(addOns) == 0 {
		return placeholder
	}
	names := make([]string, 0, len(addOns))
	for _, a := range addOns {
		names = append(names, a.DisplayName())
	}
	return strings.Join(names, ", ")
}

func renderText(b *models.Booking) string {
	name := b.CustomerName
	if name == "" {
		name = "Customer"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dear %s,\n\n", name)
	sb.WriteString("Your cleaning appointment has been confirmed. Your booking details:\n\n")
	fmt.Fprintf(&sb, "Location:              %s\n", orPlaceholder(b.Location))
	fmt.Fprintf(&sb, "Date:                  %s\n", orPlaceholder(b.Date))
	fmt.Fprintf(&sb, "Time:                  %s\n", orPlaceholder(b.Time))
	fmt.Fprintf(&sb, "Cleaning Type:         %s\n", b.CategoryDisplay())
	fmt.Fprintf(&sb, "Add-ons:               %s\n", addOnNames(b.AddOns))
	fmt.Fprintf(&sb, "Duration:              %d hours\n", b.DurationHours)
	fmt.Fprintf(&sb, "Renegotiate if longer: %s\n", yesNo(b.Renegotiate))
	fmt.Fprintf(&sb, "Price:                 €%.2f\n", b.Price)
	sb.WriteString("\nIf you need to make any changes, simply reply to this email.\n\nBest regards,\nPutzELF Team\n")
	return sb.String()
}

func renderHTML(b *models.Booking) string {
	name := b.CustomerName
	if name == "" {
		name = "Customer"
	}
	row := func(label, value string) string {
		return fmt.Sprintf(
			`<tr><td style="padding:8px;border-bottom:1px solid #eee;"><strong>%s</strong></td><td style="padding:8px;border-bottom:1px solid #eee;">%s</td></tr>`,
			label, value)
	}
	var sb strings.Builder
	sb.WriteString(`<div style="font-family:Arial,sans-serif;color:#333;">`)
	sb.WriteString(`<h2>Booking Confirmation</h2>`)
	fmt.Fprintf(&sb, `<p>Dear <strong>%s</strong>,</p>`, name)
	sb.WriteString(`<p>Your cleaning appointment has been <strong>confirmed</strong>. Below are your booking details:</p>`)
	sb.WriteString(`<table style="width:100%;border-collapse:collapse;">`)
	sb.WriteString(row("Location", orPlaceholder(b.Location)))
	sb.WriteString(row("Date", orPlaceholder(b.Date)))
	sb.WriteString(row("Time", orPlaceholder(b.Time)))
	sb.WriteString(row("Cleaning Type", b.CategoryDisplay()))
	sb.WriteString(row("Add-ons", addOnNames(b.AddOns)))
	sb.WriteString(row("Duration", fmt.Sprintf("%d hours", b.DurationHours)))
	sb.WriteString(row("Renegotiate if longer", yesNo(b.Renegotiate)))
	sb.WriteString(row("Price", fmt.Sprintf("€%.2f", b.Price)))
	sb.WriteString(`</table>`)
	sb.WriteString(`<p>If you need to make any changes, simply reply to this email and we’ll be happy to assist.</p>`)
	sb.WriteString(`<p>Best regards,<br /><strong>PutzELF Team</strong></p>`)
	sb.WriteString(`</div>`)
	return sb.String()
}
