package jdwp

// Command-set and command numbers from the JDWP wire specification. Only
// the commands the debug controller actually issues are named; command
// numbers are grouped by command set, each group prefixed with its set.
const (
	csVirtualMachine   = 1
	csReferenceType    = 2
	csClassType        = 3
	csMethod           = 6
	csObjectReference  = 9
	csStringReference  = 10
	csThreadReference  = 11
	csArrayReference   = 13
	csEventRequest     = 15
	csStackFrame       = 16
	csEvent            = 64

	cmdVMVersion       = 1
	cmdVMAllClasses    = 3
	cmdVMAllThreads    = 4
	cmdVMDispose       = 6
	cmdVMIDSizes       = 7
	cmdVMResume        = 9
	cmdVMExit          = 10
	cmdVMCreateString  = 11

	cmdRefTypeSignature  = 1
	cmdRefTypeFields     = 4
	cmdRefTypeMethods    = 5
	cmdRefTypeSourceFile = 7

	cmdMethodLineTable = 1
	cmdMethodVariableTable = 2

	cmdClassTypeInvokeMethod = 3

	cmdObjRefReferenceType     = 1
	cmdObjRefGetValues         = 2
	cmdObjRefSetValues         = 3
	cmdObjRefDisableCollection = 7
	cmdObjRefEnableCollection  = 8
	cmdObjRefInvokeMethod      = 6

	cmdStringRefValue = 1

	cmdThreadRefName       = 1
	cmdThreadRefFrames     = 6
	cmdThreadRefFrameCount = 7

	cmdArrayRefLength    = 1
	cmdArrayRefGetValues = 2
	cmdArrayRefSetValues = 3

	cmdEventRequestSet   = 1
	cmdEventRequestClear = 2
	cmdEventRequestClearAll = 3

	cmdStackFrameGetValues = 1
	cmdStackFrameSetValues = 2
	cmdStackFrameThisObject = 3

	cmdEventComposite = 100
)

// EventKind is the JDWP event-kind byte carried in every EventRequest.Set
// and every Composite event.
type EventKind byte

const (
	EventSingleStep     EventKind = 1
	EventBreakpoint     EventKind = 2
	EventException      EventKind = 4
	EventThreadStart    EventKind = 6
	EventThreadDeath    EventKind = 7
	EventClassPrepare   EventKind = 8
	EventVMStart        EventKind = 90
	EventVMDeath        EventKind = 99
	EventVMDisconnected EventKind = 100 // synthetic: connection dropped
)

// SuspendPolicy is the byte EventRequest.Set uses to say which threads a
// matched event suspends.
type SuspendPolicy byte

const (
	SuspendNone SuspendPolicy = iota
	SuspendEventThread
	SuspendAll
)

// StepSize/StepDepth for EventRequest.Set's step modifier.
const (
	StepSizeMin  = 0
	StepSizeLine = 1

	StepDepthInto = 0
	StepDepthOver = 1
	StepDepthOut  = 2
)

// InvokeOptions bit flags for ClassType/ObjectReference InvokeMethod.
const (
	InvokeSingleThreaded = 0x01
)
