package mailer

import (
	"fmt"

	"github.com/hurryup/express/internal/core/domain"
)

// Message is a rendered email ready to send.
type Message struct {
	Template string
	Subject  string
	HTML     string
	Text     string
}

const cardOpen = `<div style="font-family:Arial,sans-serif;background:#f9fafb;padding:20px">` +
	`<div style="max-width:600px;margin:auto;background:white;border-radius:12px;padding:24px">`
const cardClose = `</div></div>`

// BookingCreated confirms a new booking with its charge breakdown.
func BookingCreated(ev *domain.BookingEvent) Message {
	html := cardOpen +
		`<h2 style="color:#16a34a">Booking confirmed</h2>` +
		fmt.Sprintf(`<p>Booking ID: <b>%s</b></p>`, ev.BookingID) +
		fmt.Sprintf(`<p>Pickup: %s</p>`, ev.PickupAddress) +
		fmt.Sprintf(`<p>Delivery: %s</p>`, ev.DeliveryAddress) +
		fmt.Sprintf(`<p>Status: <b>%s</b></p>`, ev.Status) +
		fmt.Sprintf(`<p>Total charge: <b>%d BDT</b> (delivery charge: %d BDT)</p>`, ev.TotalCharge, ev.DeliveryCharge) +
		`<hr style="margin:20px 0;border:none;border-top:1px solid #e5e7eb"/>` +
		`<p style="font-size:13px;color:#6b7280">Follow the live location on the Track Parcel page.</p>` +
		cardClose
	return Message{
		Template: "booking_created",
		Subject:  fmt.Sprintf("Booking %s confirmed - HurryUp Express", ev.BookingID),
		HTML:     html,
		Text: fmt.Sprintf("Booking %s confirmed. Pickup: %s. Delivery: %s. Total charge: %d BDT.",
			ev.BookingID, ev.PickupAddress, ev.DeliveryAddress, ev.TotalCharge),
	}
}

// StatusInTransit tells the customer the parcel is on its way.
func StatusInTransit(ev *domain.BookingEvent) Message {
	agent := ev.AgentName
	if agent == "" {
		agent = "Assigned"
	}
	html := cardOpen +
		`<h2 style="color:#f59e0b">Your parcel is on the way</h2>` +
		fmt.Sprintf(`<p>Booking ID: <b>%s</b></p>`, ev.BookingID) +
		`<p>Current status: <b style="color:#f59e0b">In-Transit</b></p>` +
		fmt.Sprintf(`<p>Agent: <b>%s</b></p>`, agent) +
		`<hr style="margin:20px 0;border:none;border-top:1px solid #e5e7eb"/>` +
		`<p style="font-size:13px;color:#6b7280">See the live location on the Track Parcel page.</p>` +
		cardClose
	return Message{
		Template: "status_in_transit",
		Subject:  fmt.Sprintf("Parcel %s is in transit - HurryUp Express", ev.BookingID),
		HTML:     html,
		Text:     fmt.Sprintf("Parcel %s is in transit. Agent: %s.", ev.BookingID, agent),
	}
}

// StatusDelivered closes the loop after delivery.
func StatusDelivered(ev *domain.BookingEvent) Message {
	html := cardOpen +
		`<h2 style="color:#10b981">Delivery completed</h2>` +
		fmt.Sprintf(`<p>Booking ID: <b>%s</b></p>`, ev.BookingID) +
		`<p>Status: <b style="color:#10b981">Delivered</b></p>` +
		`<hr style="margin:20px 0;border:none;border-top:1px solid #e5e7eb"/>` +
		`<p style="font-size:13px;color:#6b7280">Thank you for using our service.</p>` +
		cardClose
	return Message{
		Template: "status_delivered",
		Subject:  fmt.Sprintf("Parcel %s delivered - HurryUp Express", ev.BookingID),
		HTML:     html,
		Text:     fmt.Sprintf("Parcel %s has been delivered. Thank you for using HurryUp Express.", ev.BookingID),
	}
}

// StatusFailed reports a failed delivery with the recorded reason.
func StatusFailed(ev *domain.BookingEvent) Message {
	reason := ev.FailureReason
	if reason == "" {
		reason = "not specified"
	}
	html := cardOpen +
		`<h2 style="color:#ef4444">Delivery failed</h2>` +
		fmt.Sprintf(`<p>Booking ID: <b>%s</b></p>`, ev.BookingID) +
		`<p>Status: <b style="color:#ef4444">Failed</b></p>` +
		fmt.Sprintf(`<p>Reason: <b>%s</b></p>`, reason) +
		`<hr style="margin:20px 0;border:none;border-top:1px solid #e5e7eb"/>` +
		`<p style="font-size:13px;color:#6b7280">Please contact support for details.</p>` +
		cardClose
	return Message{
		Template: "status_failed",
		Subject:  fmt.Sprintf("Delivery of %s failed - HurryUp Express", ev.BookingID),
		HTML:     html,
		Text:     fmt.Sprintf("Delivery of parcel %s failed. Reason: %s.", ev.BookingID, reason),
	}
}

// Registration welcomes a newly registered user.
func Registration(name, account string) Message {
	if name == "" {
		name = "there"
	}
	html := cardOpen +
		`<h2 style="color:#2563eb">Registration successful</h2>` +
		fmt.Sprintf(`<p>Hello, <b>%s</b></p>`, name) +
		`<p>Your HurryUp Express account is ready.</p>` +
		fmt.Sprintf(`<p>Account: <b>%s</b></p>`, account) +
		`<hr style="margin:20px 0;border:none;border-top:1px solid #e5e7eb"/>` +
		`<p style="font-size:13px;color:#6b7280">Thank you for joining us.</p>` +
		cardClose
	return Message{
		Template: "registration",
		Subject:  "Welcome to HurryUp Express",
		HTML:     html,
		Text:     fmt.Sprintf("Hello %s, your HurryUp Express account (%s) is ready.", name, account),
	}
}
