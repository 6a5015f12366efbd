package session

// Console messages.
const (
	MsgWelcome  = "Welcome to Replicant! What do you want to do? Available operations are"
	MsgNextOp   = "If you want to continue, available operations are"
	MsgAbort    = "No module was executed."
	MsgInspect  = "will execute the following source code:"
	MsgProceed  = "Proceed?"
	MsgComplete = "Module execution complete, returning to default view."
	MsgFailed   = "Module execution failed, returning to default view."
	MsgInvalid  = "Invalid entry."
	MsgNoModule = "No modules found."
)
