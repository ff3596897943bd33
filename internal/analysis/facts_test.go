package analysis

import (
	"testing"

	"pyshrink/internal/parser"
)

func factsFor(t *testing.T, source string) *Facts {
	t.Helper()
	tree, err := parser.NewParser().Parse("test.py", []byte(source))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	t.Cleanup(tree.Close)
	return NewFacts(tree)
}

func assertCounter(t *testing.T, got *Counter, want map[string]int) {
	t.Helper()
	if got.Len() != len(want) {
		t.Errorf("got %d symbols %v, want %d", got.Len(), got.Keys(), len(want))
	}
	for name, count := range want {
		if got.Get(name) != count {
			t.Errorf("symbol %q: got %d, want %d", name, got.Get(name), count)
		}
	}
}

func lookupMap(lookups []AttrLookup) map[string]int {
	out := make(map[string]int, len(lookups))
	for _, l := range lookups {
		out[l.Base+"."+l.Attribute] = l.Count
	}
	return out
}

func assertLookups(t *testing.T, got []AttrLookup, want map[string]int) {
	t.Helper()
	gotMap := lookupMap(got)
	if len(gotMap) != len(want) {
		t.Errorf("got %d lookups %v, want %d", len(gotMap), gotMap, len(want))
	}
	for key, count := range want {
		if gotMap[key] != count {
			t.Errorf("lookup %q: got %d, want %d", key, gotMap[key], count)
		}
	}
}

const code = `from micropython import const
from typing import TYPE_CHECKING
from message import MessageType2, MessageType3
from enums import Enum1 as ENUM
import trezor.crypto
from abc import *

HASH_LENGTH = const(32)

if TYPE_CHECKING:
    from message import MessageType1

def main(msg: MessageType1, xyz):
    x = 54  # some comment here
    # other comment
    MessageType3(xyz=x)

    MessageType2(
        xyz=x
    )

    return MessageType2(x)

def abc(x: ENUM):
    return x.ABC + 3
`

func TestTopLevelImportedSymbols(t *testing.T) {
	f := factsFor(t, code)

	imports := f.TopLevelImportedSymbols()
	if len(imports) != 7 {
		t.Fatalf("got %d imports %v, want 7", len(imports), imports)
	}
	for _, item := range []string{
		"MessageType2", "MessageType3", "ENUM", "const",
		"trezor.crypto", "TYPE_CHECKING", "*",
	} {
		if !f.IsTopLevelImport(item) {
			t.Errorf("expected %q among top-level imports %v", item, imports)
		}
	}
}

func TestGlobalSymbols(t *testing.T) {
	f := factsFor(t, code)

	symbols := f.GlobalSymbols()
	if len(symbols) != 10 {
		t.Fatalf("got %d global symbols %v, want 10", len(symbols), symbols)
	}
	for _, item := range []string{
		"MessageType2", "MessageType3", "ENUM", "HASH_LENGTH", "const",
		"trezor.crypto", "TYPE_CHECKING", "main", "abc", "*",
	} {
		if !f.IsGlobalSymbol(item) {
			t.Errorf("expected %q among global symbols %v", item, symbols)
		}
	}
}

func TestTopLevelNodeText(t *testing.T) {
	f := factsFor(t, code)

	nodes := f.TopLevelNodes()
	if len(nodes) != 10 {
		t.Fatalf("got %d top-level nodes, want 10", len(nodes))
	}

	if got := f.Tree().Text(nodes[0]); got != "from micropython import const" {
		t.Errorf("first node text = %q", got)
	}

	want := "def abc(x: ENUM):\n    return x.ABC + 3"
	if got := f.Tree().Text(nodes[len(nodes)-1]); got != want {
		t.Errorf("last node text = %q, want %q", got, want)
	}
}

const code2 = `from micropython import const
from messages import MessageType1, MessageType2
import messages
from enums import Enum1 as ENUM

HASH_LENGTH = const(32)

ABC = ENUM.ABC
MT = messages.MessageType3

def helper(x: str) -> str:
    send(MT(xyz=x))
    return str[::-1]

def main(msg: MessageType1) -> None:
    helper("abcd")
    helper("gdfg")
    res = helper("error")
    item = ENUM.ABC
    return MessageType2(xyz=res, abc=item, length=HASH_LENGTH)
`

func TestUsedFunctionSymbols(t *testing.T) {
	f := factsFor(t, code2)

	funcs := f.TopLevelFunctions()
	mainFn := funcs[len(funcs)-1]
	if mainFn.Name != "main" {
		t.Fatalf("last top-level function = %q, want main", mainFn.Name)
	}

	assertCounter(t, f.UsedFunctionSymbols(mainFn), map[string]int{
		"helper":       3,
		"MessageType2": 1,
		"ENUM":         1,
		"HASH_LENGTH":  1,
		"res":          1,
		"item":         1,
	})
}

func TestUsedFunctionImportSymbols(t *testing.T) {
	f := factsFor(t, code2)

	funcs := f.TopLevelFunctions()
	mainFn := funcs[len(funcs)-1]

	assertCounter(t, f.UsedFunctionImportSymbols(mainFn), map[string]int{
		"MessageType2": 1,
		"ENUM":         1,
	})
}

func TestSymbolUsages(t *testing.T) {
	f := factsFor(t, code2)

	assertCounter(t, f.SymbolUsages(), map[string]int{
		"helper":       3,
		"ENUM":         2,
		"HASH_LENGTH":  1,
		"messages":     1,
		"const":        1,
		"MessageType2": 1,
		"MessageType1": 1,
	})
}

func TestNonTypeSymbolUsages(t *testing.T) {
	f := factsFor(t, code2)

	// MessageType1 only appears in an annotation, so it drops out.
	assertCounter(t, f.NonTypeSymbolUsages(), map[string]int{
		"helper":       3,
		"ENUM":         2,
		"HASH_LENGTH":  1,
		"messages":     1,
		"const":        1,
		"MessageType2": 1,
	})
}

const code3 = `HASH_LENGTH = 32
_ABC = "abc"
counter = 0

def main() -> None:
    global _ABC, counter
    _ABC  = "def"
    counter += HASH_LENGTH
`

func TestIsReallyAConstant(t *testing.T) {
	f := factsFor(t, code3)

	if !f.IsReallyAConstant("HASH_LENGTH") {
		t.Errorf("HASH_LENGTH should be a constant")
	}
	if f.IsReallyAConstant("counter") {
		t.Errorf("counter is reassigned, should not be a constant")
	}
	if f.IsReallyAConstant("_ABC") {
		t.Errorf("_ABC is reassigned, should not be a constant")
	}
}

const code4 = `import messages
import enum

def main(msg: messages.MessageType1, xyz) -> messages.MessageType2:
    x = 54
    enum.MessageType3(xyz=x)
    send(messages.enum.store)
    y: messages.MessageType2 = messages.MessageType2(xyz=x)
    return messages.MessageType2(x)

def abc(x: int):
    return messages.MessageType2(x)
`

func TestGlobalAttributeLookups(t *testing.T) {
	f := factsFor(t, code4)

	assertLookups(t, f.GlobalAttributeLookups(true), map[string]int{
		"messages.MessageType2": 5,
		"messages.MessageType1": 1,
		"messages.enum":         1,
		"enum.MessageType3":     1,
	})

	assertLookups(t, f.GlobalAttributeLookups(false), map[string]int{
		"messages.MessageType2": 3,
		"messages.enum":         1,
		"enum.MessageType3":     1,
	})
}

const code5 = `from typing import TYPE_CHECKING
from message import MessageType2, MessageType3, SpecialType
import messages
from enums import Enum1, Enum2
import trezor.crypto

if TYPE_CHECKING:
    from message import MessageType1

def main(msg: MessageType1[bytes], xyz) -> list[MessageType2]:
    x = 54
    abc: SpecialType[Enum2.ABC] = SpecialType(xyz=x)
    MessageType3(xyz=x)
    res: MessageType2 = MessageType2(xyz=x)
    res2: list[MessageType2] = [MessageType2(xyz=x)]
    return res

def abc(x: Enum1, y: messages.MessageType66):
    return x.ABC + 3
`

func TestTypeHintUsages(t *testing.T) {
	f := factsFor(t, code5)

	assertCounter(t, f.TypeHintUsages(), map[string]int{
		"Enum1":        1,
		"Enum2":        1,
		"MessageType1": 1,
		"MessageType2": 3,
		"messages":     1,
		"SpecialType":  1,
		"list":         2,
		"bytes":        1,
	})
}

func TestIsUsedAsTypeHint(t *testing.T) {
	f := factsFor(t, code5)

	for _, symbol := range []string{"Enum1", "Enum2", "SpecialType", "messages"} {
		if !f.IsUsedAsTypeHint(symbol) {
			t.Errorf("%q should be used as a type hint", symbol)
		}
	}
	for _, symbol := range []string{"MessageType3", "TYPE_CHECKING", "trezor.crypto"} {
		if f.IsUsedAsTypeHint(symbol) {
			t.Errorf("%q should not be used as a type hint", symbol)
		}
	}
}

const code6 = `import messages
from messages import MyMessage, MyMsg2

def my_func(ctx, msg: MyMsg2) -> messages.MyMessage:
    # comment not to take msg.abc
    new_list = []
    assert msg.abc is not None
    msg.abc = 3
    new_list.append(4)
    new_list.append(abc(msg.abc))
    x = msg.abc.xyz
    y = msg.xyz
    return messages.MyMessage(abc=msg.abc)
`

func TestFunctionLocalAttributeLookups(t *testing.T) {
	f := factsFor(t, code6)

	funcs := f.TopLevelFunctions()
	assertLookups(t, f.FunctionLocalAttributeLookups(funcs[0]), map[string]int{
		"msg.abc":         5,
		"msg.xyz":         1,
		"new_list.append": 2,
	})
}

func TestIsAttrMutated(t *testing.T) {
	f := factsFor(t, code6)

	funcs := f.TopLevelFunctions()
	if !f.IsAttrMutated(funcs[0], "msg", "abc") {
		t.Errorf("msg.abc gets assigned, should be mutated")
	}
	if f.IsAttrMutated(funcs[0], "msg", "xyz") {
		t.Errorf("msg.xyz is only read, should not be mutated")
	}
}

const code7 = `import messages, utils, abc, paths
from messages import MSG1, default_msg
from . import CURVE, PATTERNS, SLIP44_ID
HASH_LENGTH = 32
_LOCAL_CONST = 42
counter = 0

if utils.should_do():
    do()

if abc:
    do()

TMP = _LOCAL_CONST + 1

@decorator
@decorator.abc
@decorator(counter)
@decorator(*PATTERNS, slip44_id=SLIP44_ID, curve=CURVE)
@decorator(paths.PATTERN_BIP44_PUBKEY)
async def main(
    msg: messages.ABC, second: MSG1,
    another: default_msg = default_msg()
) -> Awaitable[MSG1]:
    utils.report(msg)
    new = 4 + 5
    paths.validate_path(msg.path)
    counter += TMP
    await send(MSG1.ABC)
`

func TestNodesOutsideFunctions(t *testing.T) {
	f := factsFor(t, code7)

	counts := make(map[string]int)
	for _, node := range f.NodesOutsideFunctions() {
		counts[node.Kind()]++
	}

	want := map[string]int{
		"assignment":            4,
		"call":                  3,
		"if_statement":          2,
		"import_statement":      0,
		"import_from_statement": 0,
		"function_definition":   0,
		"module":                0,
	}
	for kind, count := range want {
		if counts[kind] != count {
			t.Errorf("kind %q: got %d, want %d", kind, counts[kind], count)
		}
	}
}

func TestIsUsedOutsideFunction(t *testing.T) {
	f := factsFor(t, code7)

	for _, symbol := range []string{
		"_LOCAL_CONST", "utils", "abc", "counter", "paths",
		"PATTERNS", "SLIP44_ID", "CURVE", "default_msg",
	} {
		if !f.IsUsedOutsideFunction(symbol) {
			t.Errorf("%q should be used outside a function", symbol)
		}
	}
	for _, symbol := range []string{"MSG1", "messages", "TMP", "HASH_LENGTH"} {
		if f.IsUsedOutsideFunction(symbol) {
			t.Errorf("%q should not be used outside a function", symbol)
		}
	}
}

const code8 = `import show, get
from messages import MyMessage, MyMsg2

def helper():
    pass

def my_func(ctx, msg: MyMsg2) -> messages.MyMessage:
    show("abc")
    if get("error"):
        show("error")
    helper()

class ABC:
    def __init__(self, x: int):
        super().__init__(x)
        self.x = self.abc(x)

    def abc(self, x: int) -> int:
        res = my_func(self.ctx, self.msg)
        return x + 1
`

func TestFunctionCallCounts(t *testing.T) {
	f := factsFor(t, code8)

	assertCounter(t, f.FunctionCallCounts(), map[string]int{
		"show":    2,
		"get":     1,
		"my_func": 1,
		"helper":  1,
		"super":   1,
	})
}

func TestStrippedWalkIsSmaller(t *testing.T) {
	f := factsFor(t, code8)

	full := len(parser.Walk(f.Tree().Root()))
	stripped := len(walkStripped(f.Tree().Root()))
	if stripped >= full {
		t.Errorf("stripped walk has %d nodes, full walk %d", stripped, full)
	}
}

func TestAllFunctions(t *testing.T) {
	f := factsFor(t, code8)

	if got := len(f.AllFunctions()); got != 4 {
		t.Errorf("got %d functions, want 4", got)
	}
	if got := len(f.TopLevelFunctions()); got != 2 {
		t.Errorf("got %d top-level functions, want 2", got)
	}
}

func TestAssignmentName(t *testing.T) {
	f := factsFor(t, "HASH_LENGTH = 32\n_LOCAL_CONST = 42\ncounter = 0\n")

	assigns := f.TopLevelAssignments()
	if len(assigns) != 3 {
		t.Fatalf("got %d assignments, want 3", len(assigns))
	}
	for i, want := range []string{"HASH_LENGTH", "_LOCAL_CONST", "counter"} {
		if got := f.AssignmentName(assigns[i]); got != want {
			t.Errorf("assignment %d: got %q, want %q", i, got, want)
		}
	}
}

func TestCallName(t *testing.T) {
	f := factsFor(t, "res = utils.abc()\nshow(\"abc\")\nsuper().__init__(x)\n")

	var names []string
	for _, node := range f.AllNodes() {
		if node.Kind() == "call" {
			names = append(names, CallName(f.Tree(), node))
		}
	}

	// Breadth-first order: the assignment's call sits one level deeper
	// than the two statement-level calls.
	want := []string{"show", "__init__", "abc", "super"}
	if len(names) != len(want) {
		t.Fatalf("got %d calls %v, want %d", len(names), names, len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("call %d: got %q, want %q", i, names[i], want[i])
		}
	}
}

func TestIsSymbolAssigned(t *testing.T) {
	f := factsFor(t, "def abc(ctx, msg):\n    res = 1\n    msg = msg2\n")

	funcs := f.TopLevelFunctions()
	if !f.IsSymbolAssigned(funcs[0], "res") {
		t.Errorf("res is assigned")
	}
	if !f.IsSymbolAssigned(funcs[0], "msg") {
		t.Errorf("msg is reassigned")
	}
	if f.IsSymbolAssigned(funcs[0], "ctx") {
		t.Errorf("ctx is only a parameter, not assigned")
	}
}

func TestConstants(t *testing.T) {
	f := factsFor(t, `from micropython import const

H = "hello"
X = const(1)
_Y = const(2)
Z = 4
`)

	constants := f.Constants()
	if len(constants) != 2 {
		t.Fatalf("got %d constants %v, want 2", len(constants), constants)
	}
	if constants[0] != "X" || constants[1] != "_Y" {
		t.Errorf("constants = %v, want [X _Y]", constants)
	}
}
