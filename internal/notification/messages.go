package notification

import "fmt"

func SettlementMessage(month, year int, reference string) Message {
	text := fmt.Sprintf("Your salary for %02d/%d has been credited.", month, year)
	if reference != "" {
		text += " Bank reference: " + reference + "."
	}
	return Message{
		Subject: fmt.Sprintf("Salary credited for %02d/%d", month, year),
		Text:    text,
	}
}

func ProfileChangeSubmittedMessage() Message {
	return Message{
		Subject: "Payroll details submitted",
		Text:    "Your bank or identity details were submitted and are awaiting review.",
	}
}

func ProfileChangeApprovedMessage() Message {
	return Message{
		Subject: "Payroll details approved",
		Text:    "Your updated bank or identity details are now active for payroll.",
	}
}

func ProfileChangeRejectedMessage(reason string) Message {
	return Message{
		Subject: "Payroll details rejected",
		Text:    "Your submitted payroll details were rejected. Reason: " + reason,
	}
}
