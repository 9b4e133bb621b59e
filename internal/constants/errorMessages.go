package constants

const (
	MsgAnalyzed      = "Mapping analysed"
	MsgValidated     = "Rows validated"
	MsgTransferred   = "Transfer finished"
	MsgDryRun        = "Dry run finished, nothing was written"
	MsgHintsReady    = "Mapping hints reconciled"
	MsgMissingFile   = "Multipart field \"file\" is required"
	MsgMissingTable  = "targetTable is required"
	MsgNoHeaders     = "No headers provided"
	MsgHistoryLoaded = "Import history loaded"
	MsgCatalogLoaded = "Destination catalog loaded"
)
