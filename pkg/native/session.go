// pkg/native/session.go
package native

// SyntheticBoardID selects the board-free synthetic signal generator built
// into the native library, used to exercise a session without hardware.
const SyntheticBoardID = -1

// emptyBoardParams is the minimal input-parameters document the native API
// accepts for boards that need no connection details.
const emptyBoardParams = "{}"
