// Package blockgraph is the read-only, indexed representation of a loaded
// Scratch project's blocks (spec.md §3 "Block Graph", §4.3).
//
// It plays the role the teacher VM's pkg/bytecode plays for smog: a
// constant, already-validated intermediate form that the execution engine
// (pkg/thread, pkg/scheduler, pkg/ops) walks without ever mutating. Where
// smog's bytecode is a flat instruction slice addressed by an instruction
// pointer, a block graph is a tree-shaped id -> Block index addressed by
// block id, because Scratch scripts are graphs of nested C-blocks rather
// than a linear instruction stream — but the design instinct (opcode +
// operand, looked up by index, classified once at load time rather than
// re-derived on every visit) is the same one bytecode.go documents at
// length for smog's Opcode type.
package blockgraph

// Opcode is a Scratch block's opcode string, e.g. "motion_movesteps",
// "control_repeat", "operator_add". Unlike smog's single-byte Opcode (a
// closed set the VM itself defines), Scratch opcodes are an open,
// string-keyed set defined by whichever extensions a project uses — so the
// representation here is a string, and classification is table-driven
// rather than a switch over a small enum.
type Opcode string

// Category groups opcodes the way spec.md §2's "Block Helpers" row and
// §4.2 organize them: motion, looks, sound, events, control, sensing,
// operators, data, procedures. Purely descriptive (nothing in the module
// reads it); dispatch itself happens by opcode, not by category.
type Category string

const (
	CategoryMotion     Category = "motion"
	CategoryLooks      Category = "looks"
	CategorySound      Category = "sound"
	CategoryEvents     Category = "events"
	CategoryControl    Category = "control"
	CategorySensing    Category = "sensing"
	CategoryOperators  Category = "operators"
	CategoryData       Category = "data"
	CategoryProcedures Category = "procedures"
)

// Shape distinguishes a value-producing reporter (round/hexagonal) from an
// effectful stack block (C-shaped/rectangular), per the glossary.
type Shape int

const (
	ShapeStack Shape = iota
	ShapeReporter
	ShapeHat
)

// OpcodeInfo is the static, load-time-computed classification of an
// opcode: its category, its shape, and whether executing it is a
// "redraw-requesting" block under spec.md §4.4/§5 (the blocks that, outside
// warp, cause the thread to yield after running: motion, looks, sound
// start, "if on edge bounce", etc.) versus "pure data" (arithmetic,
// variable set, list ops — many can run per frame without yielding).
type OpcodeInfo struct {
	Category Category
	Shape    Shape
	Redraw   bool // classed as redraw-requesting per spec.md §4.4/§5.3
	IsLoop   bool // repeat / repeat-until / while / forever: yields once per iteration outside warp
	IsWait   bool // wait / play-until-done / glide / broadcast-and-wait: parks the thread Waiting
}

// opcodeTable is the classification registry, analogous to how bytecode.go
// hardcodes the meaning of each Opcode byte in one place (the String()
// method's switch) instead of scattering it across the VM's dispatch loop.
// Unknown opcodes default to a harmless stack block per spec.md §7's
// "malformed block graph cannot crash the VM" guarantee; see Classify.
var opcodeTable = map[Opcode]OpcodeInfo{
	// Motion
	"motion_movesteps":        {Category: CategoryMotion, Shape: ShapeStack, Redraw: true},
	"motion_turnright":        {Category: CategoryMotion, Shape: ShapeStack, Redraw: true},
	"motion_turnleft":         {Category: CategoryMotion, Shape: ShapeStack, Redraw: true},
	"motion_goto_xy":          {Category: CategoryMotion, Shape: ShapeStack, Redraw: true},
	"motion_glideto_xy":       {Category: CategoryMotion, Shape: ShapeStack, Redraw: true, IsWait: true},
	"motion_pointindirection": {Category: CategoryMotion, Shape: ShapeStack, Redraw: true},
	"motion_ifonedgebounce":   {Category: CategoryMotion, Shape: ShapeStack, Redraw: true},
	"motion_setrotationstyle": {Category: CategoryMotion, Shape: ShapeStack, Redraw: true},
	"motion_xposition":        {Category: CategoryMotion, Shape: ShapeReporter},
	"motion_yposition":        {Category: CategoryMotion, Shape: ShapeReporter},
	"motion_direction":        {Category: CategoryMotion, Shape: ShapeReporter},

	// Looks
	"looks_switchcostumeto":   {Category: CategoryLooks, Shape: ShapeStack, Redraw: true},
	"looks_nextcostume":       {Category: CategoryLooks, Shape: ShapeStack, Redraw: true},
	"looks_show":              {Category: CategoryLooks, Shape: ShapeStack, Redraw: true},
	"looks_hide":              {Category: CategoryLooks, Shape: ShapeStack, Redraw: true},
	"looks_seteffectto":       {Category: CategoryLooks, Shape: ShapeStack, Redraw: true},
	"looks_setsizeto":         {Category: CategoryLooks, Shape: ShapeStack, Redraw: true},
	"looks_costumenumbername": {Category: CategoryLooks, Shape: ShapeReporter},
	"looks_size":              {Category: CategoryLooks, Shape: ShapeReporter},

	// Sound
	"sound_play":          {Category: CategorySound, Shape: ShapeStack, Redraw: true},
	"sound_playuntildone": {Category: CategorySound, Shape: ShapeStack, Redraw: true, IsWait: true},
	"sound_stopallsounds": {Category: CategorySound, Shape: ShapeStack, Redraw: true},
	"sound_setvolumeto":   {Category: CategorySound, Shape: ShapeStack},
	"sound_seteffectto":   {Category: CategorySound, Shape: ShapeStack},

	// Events
	"event_whenflagclicked":       {Category: CategoryEvents, Shape: ShapeHat},
	"event_whenkeypressed":        {Category: CategoryEvents, Shape: ShapeHat},
	"event_whenthisspriteclicked": {Category: CategoryEvents, Shape: ShapeHat},
	"event_whenbroadcastreceived": {Category: CategoryEvents, Shape: ShapeHat},
	"event_whengreaterthan":       {Category: CategoryEvents, Shape: ShapeHat},
	"event_broadcast":             {Category: CategoryEvents, Shape: ShapeStack},
	"event_broadcastandwait":      {Category: CategoryEvents, Shape: ShapeStack, IsWait: true},

	// Control
	"control_wait":              {Category: CategoryControl, Shape: ShapeStack, IsWait: true},
	"control_repeat":            {Category: CategoryControl, Shape: ShapeStack, IsLoop: true},
	"control_repeat_until":      {Category: CategoryControl, Shape: ShapeStack, IsLoop: true},
	"control_while":             {Category: CategoryControl, Shape: ShapeStack, IsLoop: true},
	"control_forever":           {Category: CategoryControl, Shape: ShapeStack, IsLoop: true},
	"control_if":                {Category: CategoryControl, Shape: ShapeStack},
	"control_if_else":           {Category: CategoryControl, Shape: ShapeStack},
	"control_stop":              {Category: CategoryControl, Shape: ShapeStack},
	"control_create_clone_of":   {Category: CategoryControl, Shape: ShapeStack},
	"control_delete_this_clone": {Category: CategoryControl, Shape: ShapeStack},
	"control_start_as_clone":    {Category: CategoryControl, Shape: ShapeHat},
	"control_all_at_once":       {Category: CategoryControl, Shape: ShapeStack},

	// Sensing
	"sensing_timer":         {Category: CategorySensing, Shape: ShapeReporter},
	"sensing_resettimer":    {Category: CategorySensing, Shape: ShapeStack},
	"sensing_mousex":        {Category: CategorySensing, Shape: ShapeReporter},
	"sensing_mousey":        {Category: CategorySensing, Shape: ShapeReporter},
	"sensing_mousedown":     {Category: CategorySensing, Shape: ShapeReporter},
	"sensing_dayssince2000": {Category: CategorySensing, Shape: ShapeReporter},
	"sensing_keypressed":    {Category: CategorySensing, Shape: ShapeReporter},
	"sensing_counter":       {Category: CategorySensing, Shape: ShapeReporter},
	"sensing_changecounter": {Category: CategorySensing, Shape: ShapeStack},
	"sensing_clearcounter":  {Category: CategorySensing, Shape: ShapeStack},

	// Operators
	"operator_add":       {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_subtract":  {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_multiply":  {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_divide":    {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_mod":       {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_round":     {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_math_op":   {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_lt":        {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_gt":        {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_equals":    {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_and":       {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_or":        {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_not":       {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_join":      {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_letter_of": {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_length":    {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_contains":  {Category: CategoryOperators, Shape: ShapeReporter},
	"operator_random":    {Category: CategoryOperators, Shape: ShapeReporter},

	// Data
	"data_setvariableto":     {Category: CategoryData, Shape: ShapeStack},
	"data_changevariableby":  {Category: CategoryData, Shape: ShapeStack},
	"data_showvariable":      {Category: CategoryData, Shape: ShapeStack},
	"data_hidevariable":      {Category: CategoryData, Shape: ShapeStack},
	"data_variable":          {Category: CategoryData, Shape: ShapeReporter},
	"data_addtolist":         {Category: CategoryData, Shape: ShapeStack},
	"data_deleteoflist":      {Category: CategoryData, Shape: ShapeStack},
	"data_deletealloflist":   {Category: CategoryData, Shape: ShapeStack},
	"data_insertatlist":      {Category: CategoryData, Shape: ShapeStack},
	"data_replaceitemoflist": {Category: CategoryData, Shape: ShapeStack},
	"data_itemoflist":        {Category: CategoryData, Shape: ShapeReporter},
	"data_itemnumoflist":     {Category: CategoryData, Shape: ShapeReporter},
	"data_lengthoflist":      {Category: CategoryData, Shape: ShapeReporter},
	"data_listcontainsitem":  {Category: CategoryData, Shape: ShapeReporter},
	"data_listcontents":      {Category: CategoryData, Shape: ShapeReporter},

	// Procedures
	"procedures_definition":           {Category: CategoryProcedures, Shape: ShapeHat},
	"procedures_call":                 {Category: CategoryProcedures, Shape: ShapeStack},
	"argument_reporter_string_number": {Category: CategoryProcedures, Shape: ShapeReporter},
	"argument_reporter_boolean":       {Category: CategoryProcedures, Shape: ShapeReporter},
}

// Classify returns the static classification for op, defaulting to a
// harmless non-redraw stack block for an opcode this build doesn't
// recognize — per spec.md §7, an unrecognized/malformed block is a no-op,
// never a crash.
func Classify(op Opcode) OpcodeInfo {
	if info, ok := opcodeTable[op]; ok {
		return info
	}
	return OpcodeInfo{Category: CategoryOperators, Shape: ShapeStack}
}

// IsReporter reports whether op is a value-producing reporter block.
func IsReporter(op Opcode) bool { return Classify(op).Shape == ShapeReporter }

// IsHat reports whether op is a top-of-script hat trigger.
func IsHat(op Opcode) bool { return Classify(op).Shape == ShapeHat }
