// Command gymctl служебная утилита: миграции схемы, создание администратора и просмотр событий.
package main

import "github.com/magabrotheeeer/gym-tracker/cmd/gymctl/commands"

func main() {
	commands.Execute()
}
