package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/porenet/pkg/network"
	"github.com/matzehuels/porenet/pkg/render/nodelink"
)

func ExampleToDOT() {
	net := network.New(nil)
	_ = net.AddPore(network.Pore{ID: "0", Depth: 0, Air: true})
	_ = net.AddPore(network.Pore{ID: "1", Depth: 35, Air: true})
	_, _ = net.AddChannel("0", "1")

	dot := nodelink.ToDOT(net, nodelink.Options{Surface: []string{"0"}})

	fmt.Println(strings.Contains(dot, `"0" -- "1"`))
	// Output:
	// true
}
