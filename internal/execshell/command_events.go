package execshell

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that the child exited and supplies the captured result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports spawn failures that produced no result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}

// compositeCommandEventObserver fans every event out to each registered observer in order.
type compositeCommandEventObserver []CommandEventObserver

func (observers compositeCommandEventObserver) CommandStarted(command ShellCommand) {
	for _, observer := range observers {
		observer.CommandStarted(command)
	}
}

func (observers compositeCommandEventObserver) CommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, observer := range observers {
		observer.CommandCompleted(command, result)
	}
}

func (observers compositeCommandEventObserver) CommandExecutionFailed(command ShellCommand, failure error) {
	for _, observer := range observers {
		observer.CommandExecutionFailed(command, failure)
	}
}

func newCommandEventObserver(candidateObservers []CommandEventObserver) CommandEventObserver {
	configuredObservers := make(compositeCommandEventObserver, 0, len(candidateObservers))
	for _, candidateObserver := range candidateObservers {
		if candidateObserver == nil {
			continue
		}
		configuredObservers = append(configuredObservers, candidateObserver)
	}
	if len(configuredObservers) == 0 {
		return noopCommandEventObserver{}
	}
	return configuredObservers
}
