package nav_test

import (
	"fmt"

	"github.com/Mr-Dark-debug/wayfinder/pkg/nav"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/host"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/linear"
	"github.com/Mr-Dark-debug/wayfinder/pkg/nav/navtest"
)

func ExampleRouter() {
	stack := host.NewStack()
	n, _ := nav.NewNavigator(&navtest.Host{HostName: "demo"}, nil, linear.New(stack))

	r := nav.NewRouter()
	r.Subscribe(func(ev nav.Event) { fmt.Println(ev.Message()) })
	r.SetNavigator(n)

	_ = r.Navigate(
		linear.Replace{Screen: navtest.NewScreen("home", nil)},
		linear.Forward{Screen: navtest.NewScreen("details", nil)},
		nav.Back{},
		nav.Back{},
	)
	// Output:
	// launch demo
	// open screen home
	// open screen details
	// close screen details
	// finish demo
}
