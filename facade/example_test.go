package facade_test

import (
	"context"
	"fmt"

	"github.com/relaycore/relay/controller"
	"github.com/relaycore/relay/facade"
	"github.com/relaycore/relay/notification"
	"github.com/relaycore/relay/view"
)

// Example_basicUsage demonstrates observers, commands, and sending.
func Example_basicUsage() {
	f := facade.New()

	// Subscribe a plain observer.
	h := notification.HandlerFunc(func(_ context.Context, note *notification.Notification) error {
		fmt.Printf("observed %s: %v\n", note.Name(), note.Body())
		return nil
	})
	if err := f.View().RegisterObserver("greeting", notification.NewObserver(h, "console")); err != nil {
		fmt.Println(err)
		return
	}

	// Map a command to the same notification.
	if err := f.RegisterCommand("greeting", func() controller.Command {
		return controller.CommandFunc(func(_ context.Context, note *notification.Notification) error {
			fmt.Printf("command ran for %s\n", note.Name())
			return nil
		})
	}); err != nil {
		fmt.Println(err)
		return
	}

	if err := f.Send(context.Background(), "greeting", notification.WithBody("hello")); err != nil {
		fmt.Println(err)
	}

	// Output:
	// observed greeting: hello
	// command ran for greeting
}

type loggingMediator struct {
	view.BaseMediator
}

func (m *loggingMediator) Interests() []string { return []string{"doc.saved"} }

func (m *loggingMediator) HandleNotification(_ context.Context, note *notification.Notification) error {
	fmt.Printf("mediator saw %s\n", note.Name())
	return nil
}

// Example_mediator demonstrates mediator registration and interests.
func Example_mediator() {
	f := facade.New()

	m := &loggingMediator{BaseMediator: view.NewBaseMediator("logger", nil)}
	if err := f.RegisterMediator(m); err != nil {
		fmt.Println(err)
		return
	}

	_ = f.Send(context.Background(), "doc.saved")
	_ = f.Send(context.Background(), "doc.opened") // nobody listens

	// Output: mediator saw doc.saved
}
