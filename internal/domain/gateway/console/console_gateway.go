package console

// Gateway writes plain lines to the process console
type Gateway interface {
	WriteLine(line string)
}
