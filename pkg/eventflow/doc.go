/*
Package eventflow provides declarative, event-driven workflow orchestration
on top of an in-process event bus.

# Overview

eventflow is a Go library for wiring independent units of behavior
("flows") to named events. Each flow declares its bindings up front (entry
points, plain listeners, routers that pick the next event from their
return value, and pattern watchers over raw text) and installs them as a
group against a bus. The bus provides deterministic ordering, failure
isolation per handler, two dispatch modes (queued fire-and-continue vs.
synchronous wait-for-completion), and a bounded history of outcomes.

# Basic Usage

Declare a flow with its bindings, register it, and trigger events:

	flow := eventflow.NewFlow("deploy").
	    OnStart("deploy.requested", func(ctx context.Context, p event.Payload) (any, error) {
	        return nil, prepare(p)
	    }).
	    Route("deploy.decide", func(ctx context.Context, p event.Payload) (any, error) {
	        if p["approved"] == true {
	            return "deploy.run", nil
	        }
	        return "deploy.rejected", nil
	    }).
	    On("deploy.run", runDeploy)

	bus := event.NewBus()
	bus.Start()
	defer bus.Stop()

	if err := flow.Register(bus); err != nil {
	    log.Fatal(err)
	}

	res := bus.TriggerAndWait(ctx, "deploy.decide", event.Payload{"approved": true})
	if !res.Success {
	    log.Fatal(res.Error)
	}

# Flow Managers

Manager collects flows under unique names, shares one bus among them, and
delegates lifecycle to it. Process-wide DefaultBus and DefaultManager
singletons exist for callers that do not want to manage instances; every
component also accepts an injected bus so tests stay isolated.

# Terminal Output

Flows can react to raw program output instead of named events: OnOutput
binds a regexp that the bus evaluates against each line handed to
ProcessTerminalOutput, optionally forwarding matches as events.
*/
package eventflow
