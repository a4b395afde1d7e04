package core

import "testing"

func TestNumberRender(t *testing.T) {
	tests := []struct {
		value NumberValue
		want  string
	}{
		{NumberValue(4), "4"},
		{NumberValue(4.0), "4"},
		{NumberValue(-3), "-3"},
		{NumberValue(2.5), "2.5"},
		{NumberValue(0), "0"},
	}

	for _, tt := range tests {
		if got := tt.value.Render(); got != tt.want {
			t.Errorf("NumberValue(%v).Render() = %q, want %q", float64(tt.value), got, tt.want)
		}
	}
}

func TestRenderOtherTypes(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{NilValue{}, "nil"},
		{BoolValue(true), "true"},
		{BoolValue(false), "false"},
		{StringValue("hi"), "hi"},
	}

	for _, tt := range tests {
		if got := tt.value.Render(); got != tt.want {
			t.Errorf("%T.Render() = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		value Value
		want  bool
	}{
		{BoolValue(true), true},
		{BoolValue(false), false},
		{NilValue{}, false},
		{NumberValue(0), false},
		{NumberValue(1), true},
		{NumberValue(-1), true},
		{StringValue(""), true},
		{StringValue("x"), true},
	}

	for _, tt := range tests {
		if got := truthy(tt.value); got != tt.want {
			t.Errorf("truthy(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestValuesEqual(t *testing.T) {
	arr1 := newArray(2, NilValue{})
	arr2 := newArray(2, NilValue{})

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil equals nil", NilValue{}, NilValue{}, true},
		{"equal numbers", NumberValue(1), NumberValue(1), true},
		{"unequal numbers", NumberValue(1), NumberValue(2), false},
		{"equal strings", StringValue("a"), StringValue("a"), true},
		{"unequal strings", StringValue("a"), StringValue("b"), false},
		{"different types", NumberValue(1), StringValue("1"), false},
		{"same array identity", arr1, arr1, true},
		{"different array identity", arr1, arr2, false},
		{"bools by value", BoolValue(true), BoolValue(true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := valuesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("valuesEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestArraysShareBackingStore(t *testing.T) {
	arr := newArray(3, NumberValue(0))
	alias := arr
	alias.Elems[0] = NumberValue(42)

	if arr.Elems[0] != NumberValue(42) {
		t.Errorf("mutation through alias not observed: got %v", arr.Elems[0])
	}
}
