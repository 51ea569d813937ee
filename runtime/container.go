package runtime

// FlowFactory constructs a Flow from a manifest config map.
type FlowFactory func(config map[string]any) (Flow, error)

// RunnerFactory constructs a Runner from a manifest config map.
type RunnerFactory func(config map[string]any) (Runner, error)

// Container maps registered class names to flow and runner factories. The
// manifest codec looks classes up here; callers register their own classes
// before loading a manifest that references them. There is no discovery
// beyond explicit registration.
type Container struct {
	flows   map[string]FlowFactory
	runners map[string]RunnerFactory
}

// NewContainer returns an empty container with no registered classes.
func NewContainer() *Container {
	return &Container{
		flows:   make(map[string]FlowFactory),
		runners: make(map[string]RunnerFactory),
	}
}

// DefaultContainer returns a container with the built-in classes registered:
// FileFlow, FolderFlow, VoidFlow and CopyRunner.
func DefaultContainer() *Container {
	c := NewContainer()

	c.SetFlow("FileFlow", func(config map[string]any) (Flow, error) {
		flow := &FileFlow{}
		if err := DecodeConfig(flow, config); err != nil {
			return nil, err
		}
		return flow, nil
	})

	c.SetFlow("FolderFlow", func(config map[string]any) (Flow, error) {
		flow := &FolderFlow{}
		if err := DecodeConfig(flow, config); err != nil {
			return nil, err
		}
		return flow, nil
	})

	c.SetFlow("VoidFlow", func(config map[string]any) (Flow, error) {
		flow := &VoidFlow{}
		if err := DecodeConfig(flow, config); err != nil {
			return nil, err
		}
		return flow, nil
	})

	c.SetRunner("CopyRunner", func(config map[string]any) (Runner, error) {
		runner := &CopyRunner{}
		if err := DecodeConfig(runner, config); err != nil {
			return nil, err
		}
		return runner, nil
	})

	return c
}

// SetFlow registers a flow factory under a class name, replacing any
// previous registration.
func (c *Container) SetFlow(className string, factory FlowFactory) {
	c.flows[className] = factory
}

// SetRunner registers a runner factory under a class name, replacing any
// previous registration.
func (c *Container) SetRunner(className string, factory RunnerFactory) {
	c.runners[className] = factory
}

// NewFlow constructs a flow of the named class. An unregistered name yields
// a ClassNotFoundError carrying the class name.
func (c *Container) NewFlow(className string, config map[string]any) (Flow, error) {
	factory, ok := c.flows[className]
	if !ok {
		return nil, &ClassNotFoundError{Kind: ClassKindFlow, Name: className}
	}
	return factory(config)
}

// NewRunner constructs a runner of the named class. An unregistered name
// yields a ClassNotFoundError carrying the class name.
func (c *Container) NewRunner(className string, config map[string]any) (Runner, error) {
	factory, ok := c.runners[className]
	if !ok {
		return nil, &ClassNotFoundError{Kind: ClassKindRunner, Name: className}
	}
	return factory(config)
}
