package strategy

import "testing"

const smallClassCode = `from message import MessageType2, MessageType3

class NameSize:
    ABC = 1

    def __init__(self, name: str, size: int):
        self.name = name
        self.size = size

class BIGClass:
    ABC = 1

    def __init__(self, name: str, size: int):
        self.name = name
        self.size = size

    def show(self):
        print(self.name, self.size)

class ExceptionDoNotCare(Exception):
    pass

def main(msg: MessageType1, xyz):
    x = 54
    return NameSize("abc", 3)

def abc(x: int):
    return MessageType2(x)
`

func TestInitOnlyClasses(t *testing.T) {
	facts := factsFor(t, smallClassCode)

	res := InitOnlyClasses(facts, DefaultSettings())
	if len(res) != 1 {
		t.Fatalf("got %d findings %v, want 1", len(res), res)
	}

	finding := res[0].(InitOnlyClassFinding)
	if finding.Name != "NameSize" {
		t.Errorf("name = %q, want NameSize", finding.Name)
	}
	if finding.SavedBytes() != 0 {
		t.Errorf("saved bytes = %d, want 0", finding.SavedBytes())
	}
}
