// Command ptoctl manages PTO entries directly against the SQLite database.
package main

func main() {
	Execute()
}
