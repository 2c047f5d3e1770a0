package services

import (
	"fmt"
)

// Fixed bot replies. All customer-facing copy is Roman Urdu, Karachi style.
const (
	WelcomeText = "Assalamualaikum bhai! MedEasy Pharmacy mein khush aamdeed\n\n" +
		"Kya haal hai? Aaj kya chahiye?\n\n" +
		"• Naya order shuru karo\n• Parchi upload karo\n• Pharmacist se baat karo"

	AskPhoneText     = "Wah bhai! Order ka mood hai?\n\nPehle mobile number daal do (11 digit)\nExample: 03331234567"
	InvalidPhoneText = "Bhai sahi number daal do na\nExample: 03331234567"
	phoneSavedFormat = "Number save ho gaya %s!\nAb apna naam bata do"
	EmptyNameText    = "Bhai naam to bata do"
	nameSavedFormat  = "Wah %s bohot acha naam hai!\nEmail daal do ya \"skip\" likh do"
	EmailSavedText   = "Email save!\nAb address daal do ya \"skip\" likh do"
	ProfileSavedText = "Bhai sab data save ho gaya!\nAb batao kya karna hai?"

	uploadFormat       = "Bhai parchi ki photo yahan upload kar do\n%s\n5-10 min mein check kar denge"
	UploadFailedText   = "Sorry bhai, upload link nahi ban saka. Pharmacist se baat karo?"
	HandoverText       = "Theek hai bhai, pharmacist se connect kar raha hun... 1 min wait karo"
	EmptyCompletion    = "Sorry bhai, samajh nahi aaya."
	CompletionFailed   = "Yar thodi problem aa gayi, pharmacist se baat karo?"
	DosageDeflection   = "Bhai dawai ki khurak pharmacist hi batayega. Pharmacist se baat karo?"
	pharmacistAlertFmt = "MedEasy handover: session %s needs a pharmacist. Phone: %s"
)

// Quick replies offered with the greeting
const (
	SuggestNewOrder   = "Naya order shuru karo"
	SuggestUpload     = "Parchi upload karo"
	SuggestPharmacist = "Pharmacist se baat karo"
)

// WelcomeSuggestions is the ordered quick-reply set for the greeting
var WelcomeSuggestions = []string{SuggestNewOrder, SuggestUpload, SuggestPharmacist}

// PhoneSavedText confirms a cleaned phone number
func PhoneSavedText(phone string) string {
	return fmt.Sprintf(phoneSavedFormat, phone)
}

// NameSavedText greets the user by the name they gave
func NameSavedText(name string) string {
	return fmt.Sprintf(nameSavedFormat, name)
}

// UploadText embeds a signed upload URL
func UploadText(url string) string {
	return fmt.Sprintf(uploadFormat, url)
}

// PharmacistAlertText is sent to the on-duty pharmacist on handover
func PharmacistAlertText(sessionKey string, phone *string) string {
	p := "unknown"
	if phone != nil {
		p = *phone
	}
	return fmt.Sprintf(pharmacistAlertFmt, sessionKey, p)
}
