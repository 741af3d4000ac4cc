package constants

// DocumentStatus is the УПД status printed in the header: 1 means invoice plus
// transfer act, 2 means transfer act only.
type DocumentStatus int

const (
	StatusUnknown     DocumentStatus = 0
	StatusInvoiceAct  DocumentStatus = 1
	StatusTransferAct DocumentStatus = 2
)
